package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(url string) *Client {
	return NewClient(ClientConfig{
		Provider: ProviderCustom,
		BaseURL:  url,
		Model:    "test-model",
		Timeout:  2 * time.Second,
	})
}

func TestGenerate(t *testing.T) {
	var gotPath string
	var gotReq chatRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "  Your account is at risk.  "}},
			},
		})
	}))
	defer srv.Close()

	text, err := newTestClient(srv.URL).Generate(context.Background(), "continue the call")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "Your account is at risk." {
		t.Errorf("got %q, want trimmed completion", text)
	}
	if gotPath != "/chat/completions" {
		t.Errorf("request path = %q", gotPath)
	}
	if gotReq.Model != "test-model" {
		t.Errorf("request model = %q", gotReq.Model)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Content != "continue the call" {
		t.Errorf("prompt not embedded in request: %+v", gotReq.Messages)
	}
}

func TestGenerateErrorsAreRetryable(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "upstream down", http.StatusBadGateway)
		}},
		{"empty completion", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"choices": []map[string]any{{"message": map[string]any{"content": "   "}}},
			})
		}},
		{"no choices", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
		}},
		{"garbage body", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			_, err := newTestClient(srv.URL).Generate(context.Background(), "x")
			if !errors.Is(err, ErrUnavailable) {
				t.Errorf("got %v, want ErrUnavailable", err)
			}
		})
	}
}

func TestGenerateTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		Provider: ProviderCustom,
		BaseURL:  srv.URL,
		Timeout:  20 * time.Millisecond,
	})
	_, err := client.Generate(context.Background(), "x")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("timeout should surface as ErrUnavailable, got %v", err)
	}
}

func TestGeneratorFunc(t *testing.T) {
	g := GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		return "echo: " + prompt, nil
	})

	out, err := g.Generate(context.Background(), "hi")
	if err != nil || out != "echo: hi" {
		t.Errorf("GeneratorFunc = (%q, %v)", out, err)
	}
}
