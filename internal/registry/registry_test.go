// ABOUTME: Tests for the tool registry including replacement, ordering, and invocation errors.
// ABOUTME: Validates that List is deterministic and that handler failures are wrapped.

package registry

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
)

func testTool(name string) Tool {
	return Tool{
		Name:        name,
		Description: name + " description",
		InputSchema: json.RawMessage(`{"type":"object"}`),
	}
}

func textHandler(text string) Handler {
	return func(ctx context.Context, args Arguments) (*ToolResult, error) {
		return &ToolResult{Content: []Content{{Type: ContentTypeText, Text: text}}}, nil
	}
}

func TestRegistryRegister(t *testing.T) {
	t.Run("rejects empty name", func(t *testing.T) {
		r := New(slog.Default())
		err := r.Register(testTool(""), textHandler("x"))
		if !errors.Is(err, ErrInvalidTool) {
			t.Fatalf("expected ErrInvalidTool, got %v", err)
		}
		if r.Len() != 0 {
			t.Errorf("expected empty registry, got %d tools", r.Len())
		}
	})

	t.Run("rejects nil handler", func(t *testing.T) {
		r := New(slog.Default())
		if err := r.Register(testTool("a"), nil); !errors.Is(err, ErrInvalidTool) {
			t.Fatalf("expected ErrInvalidTool, got %v", err)
		}
	})

	t.Run("registers and reports existence", func(t *testing.T) {
		r := New(nil)
		if err := r.Register(testTool("a"), textHandler("a")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !r.Exists("a") {
			t.Error("expected tool 'a' to exist")
		}
		if r.Exists("b") {
			t.Error("expected tool 'b' to not exist")
		}
	})
}

func TestRegistryList(t *testing.T) {
	t.Run("returns registration order", func(t *testing.T) {
		r := New(slog.Default())
		names := []string{"zeta", "alpha", "mid", "beta"}
		for _, n := range names {
			if err := r.Register(testTool(n), textHandler(n)); err != nil {
				t.Fatalf("register %s: %v", n, err)
			}
		}

		for i := 0; i < 5; i++ {
			tools := r.List()
			if len(tools) != len(names) {
				t.Fatalf("expected %d tools, got %d", len(names), len(tools))
			}
			for j, tool := range tools {
				if tool.Name != names[j] {
					t.Errorf("position %d: expected %s, got %s", j, names[j], tool.Name)
				}
			}
		}
	})

	t.Run("empty registry lists nothing", func(t *testing.T) {
		r := New(slog.Default())
		tools := r.List()
		if tools == nil || len(tools) != 0 {
			t.Errorf("expected empty non-nil slice, got %#v", tools)
		}
	})
}

func TestRegistryReplace(t *testing.T) {
	r := New(slog.Default())
	_ = r.Register(testTool("first"), textHandler("first"))
	_ = r.Register(testTool("dup"), textHandler("old"))
	_ = r.Register(testTool("last"), textHandler("last"))

	replacement := testTool("dup")
	replacement.Description = "replaced"
	if err := r.Register(replacement, textHandler("new")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tools := r.List()
	if len(tools) != 3 {
		t.Fatalf("expected 3 tools, got %d", len(tools))
	}
	if tools[1].Name != "dup" {
		t.Errorf("expected dup to keep position 1, got %s", tools[1].Name)
	}
	if tools[1].Description != "replaced" {
		t.Errorf("expected replaced schema, got %q", tools[1].Description)
	}

	result, err := r.Invoke(context.Background(), "dup", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := result.Content[0].Text; got != "new" {
		t.Errorf("expected second handler to run, got %q", got)
	}
}

func TestRegistryInvoke(t *testing.T) {
	t.Run("unknown tool", func(t *testing.T) {
		r := New(slog.Default())
		_, err := r.Invoke(context.Background(), "missing_tool", Arguments{})
		if !errors.Is(err, ErrToolNotFound) {
			t.Fatalf("expected ErrToolNotFound, got %v", err)
		}
		if err.Error() != "tool not found: missing_tool" {
			t.Errorf("unexpected message: %s", err.Error())
		}
	})

	t.Run("handler error is wrapped", func(t *testing.T) {
		r := New(slog.Default())
		cause := errors.New("kaboom")
		_ = r.Register(testTool("bad"), func(ctx context.Context, args Arguments) (*ToolResult, error) {
			return nil, cause
		})

		_, err := r.Invoke(context.Background(), "bad", Arguments{})
		var execErr *ExecutionError
		if !errors.As(err, &execErr) {
			t.Fatalf("expected ExecutionError, got %T", err)
		}
		if execErr.Tool != "bad" {
			t.Errorf("expected tool 'bad', got %q", execErr.Tool)
		}
		if !errors.Is(err, cause) {
			t.Error("expected error chain to include the handler error")
		}
		if errors.Is(err, ErrToolNotFound) {
			t.Error("handler failure must not look like ErrToolNotFound")
		}
	})

	t.Run("nil arguments become empty map", func(t *testing.T) {
		r := New(slog.Default())
		var got Arguments
		_ = r.Register(testTool("echo"), func(ctx context.Context, args Arguments) (*ToolResult, error) {
			got = args
			return &ToolResult{}, nil
		})

		if _, err := r.Invoke(context.Background(), "echo", nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got == nil {
			t.Error("expected non-nil arguments")
		}
	})

	t.Run("passes arguments through", func(t *testing.T) {
		r := New(slog.Default())
		var got Arguments
		_ = r.Register(testTool("echo"), func(ctx context.Context, args Arguments) (*ToolResult, error) {
			got = args
			return &ToolResult{}, nil
		})

		_, _ = r.Invoke(context.Background(), "echo", Arguments{"target": "Titan"})
		if got["target"] != "Titan" {
			t.Errorf("expected target argument, got %#v", got)
		}
	})
}

func TestContentJSON(t *testing.T) {
	text, _ := json.Marshal(Content{Type: ContentTypeText, Text: "hi"})
	if string(text) != `{"type":"text","text":"hi"}` {
		t.Errorf("unexpected text content: %s", text)
	}

	res, _ := json.Marshal(Content{Type: ContentTypeResource, Resource: &Resource{URI: "data://result", MimeType: "application/json", Text: "{}"}})
	want := `{"type":"resource","resource":{"uri":"data://result","mimeType":"application/json","text":"{}"}}`
	if string(res) != want {
		t.Errorf("unexpected resource content: %s", res)
	}
}

func TestContentJSON_EmptyText(t *testing.T) {
	text, _ := json.Marshal(Content{Type: ContentTypeText})
	if string(text) != `{"type":"text","text":""}` {
		t.Errorf("unexpected empty text content: %s", text)
	}
}
