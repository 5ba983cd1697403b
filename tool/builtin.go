package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// HackerNewsBaseURL is the public Firebase endpoint of the Hacker News API.
const HackerNewsBaseURL = "https://hacker-news.firebaseio.com/v0"

type twoIntegers struct {
	A int64 `json:"a" description:"The first integer"`
	B int64 `json:"b" description:"The second integer"`
}

// NewSumTool returns sum_two_elements, which adds two integers.
func NewSumTool() *FunctionTool {
	return NewFunctionToolFromStruct(
		"sum_two_elements",
		"Computes the sum of two integers.",
		twoIntegers{},
		func(_ context.Context, args map[string]any) (any, error) {
			return intArg(args, "a") + intArg(args, "b"), nil
		},
	)
}

// NewMultiplyTool returns multiply_two_elements, which multiplies two integers.
func NewMultiplyTool() *FunctionTool {
	return NewFunctionToolFromStruct(
		"multiply_two_elements",
		"Multiplies two integers.",
		twoIntegers{},
		func(_ context.Context, args map[string]any) (any, error) {
			return intArg(args, "a") * intArg(args, "b"), nil
		},
	)
}

// NewLogTool returns compute_log, the natural logarithm of a positive integer.
func NewLogTool() *FunctionTool {
	return NewFunctionToolFromStruct(
		"compute_log",
		"Computes the natural logarithm of an integer x. x must be greater than 0.",
		struct {
			X int64 `json:"x" description:"The integer value for which the logarithm is computed"`
		}{},
		func(_ context.Context, args map[string]any) (any, error) {
			x := intArg(args, "x")
			if x <= 0 {
				return "Logarithm is undefined for values less than or equal to 0.", nil
			}
			return math.Log(float64(x)), nil
		},
	)
}

// NewWriteFileTool returns write_str_to_txt, which writes a string to a text
// file, overwriting it. Relative paths resolve against baseDir when it is set.
func NewWriteFileTool(baseDir string) *FunctionTool {
	return NewFunctionToolFromStruct(
		"write_str_to_txt",
		"Writes a string to a txt file. If the file already exists it is overwritten.",
		struct {
			StringData  string `json:"string_data" description:"The string containing the data to be written to the file"`
			TxtFilename string `json:"txt_filename" description:"The name of the text file to write"`
		}{},
		func(_ context.Context, args map[string]any) (any, error) {
			name, _ := args["txt_filename"].(string)
			data, _ := args["string_data"].(string)
			if baseDir != "" && !filepath.IsAbs(name) {
				name = filepath.Join(baseDir, name)
			}
			if err := os.WriteFile(name, []byte(data), 0o644); err != nil {
				return nil, err
			}
			return fmt.Sprintf("Data successfully written to %s", name), nil
		},
	)
}

type hnStory struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// NewHackerNewsTool returns fetch_top_hacker_news_stories. A nil client uses
// a client with a 10s timeout; an empty baseURL uses HackerNewsBaseURL.
func NewHackerNewsTool(client *http.Client, baseURL string) *FunctionTool {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if baseURL == "" {
		baseURL = HackerNewsBaseURL
	}

	return NewFunctionToolFromStruct(
		"fetch_top_hacker_news_stories",
		"Fetch the top stories from Hacker News. Returns a JSON list with the title and URL of each story.",
		struct {
			TopN int64 `json:"top_n" description:"The number of top stories to retrieve"`
		}{},
		func(ctx context.Context, args map[string]any) (any, error) {
			topN := int(intArg(args, "top_n"))

			var ids []int64
			if err := getJSON(ctx, client, baseURL+"/topstories.json", &ids); err != nil {
				return nil, err
			}
			if topN < len(ids) {
				ids = ids[:max(topN, 0)]
			}

			stories := make([]hnStory, 0, len(ids))
			for _, id := range ids {
				story := hnStory{Title: "No title", URL: "No URL available"}
				if err := getJSON(ctx, client, fmt.Sprintf("%s/item/%d.json", baseURL, id), &story); err != nil {
					return nil, err
				}
				stories = append(stories, story)
			}

			b, err := json.Marshal(stories)
			if err != nil {
				return nil, err
			}
			return string(b), nil
		},
	)
}

// intArg reads a validated integer argument. Coercion leaves int64, but
// callers invoking Call directly may pass any integer kind.
func intArg(args map[string]any, key string) int64 {
	switch v := args[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

func getJSON(ctx context.Context, client *http.Client, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %s", url, resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(v)
}

// Builtins returns every builtin tool. Files written by write_str_to_txt are
// placed relative to baseDir.
func Builtins(baseDir string) []Tool {
	return []Tool{
		NewSumTool(),
		NewMultiplyTool(),
		NewLogTool(),
		NewWriteFileTool(baseDir),
		NewHackerNewsTool(nil, ""),
	}
}
