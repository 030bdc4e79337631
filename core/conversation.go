package orchestration

import (
	"strings"
	"sync"

	"github.com/menschrobotics/ruby-core/core/llms"
)

// conversation is the append-only turn history shared between the turn loop
// and readers on other goroutines.
type conversation struct {
	mu    sync.RWMutex
	turns []llms.Turn
}

// appendUser records a user utterance. Whitespace-only transcripts are
// dropped so they never reach the model; the return reports whether the turn
// was recorded.
func (c *conversation) appendUser(transcript string) bool {
	if strings.TrimSpace(transcript) == "" {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = append(c.turns, llms.Turn{Role: llms.TurnRoleUser, Content: transcript})
	return true
}

func (c *conversation) appendAssistant(content string, toolCalls []llms.ToolCall) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = append(c.turns, llms.Turn{
		Role:      llms.TurnRoleAssistant,
		Content:   content,
		ToolCalls: toolCalls,
	})
}

func (c *conversation) appendToolResponses(toolCalls []llms.ToolCall) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, call := range toolCalls {
		c.turns = append(c.turns, llms.Turn{
			Role:      llms.TurnRoleTool,
			Content:   call.Response,
			ToolCalls: []llms.ToolCall{call},
		})
	}
}

// Snapshot copies the history so callers can iterate without holding the
// lock.
func (c *conversation) Snapshot() []llms.Turn {
	c.mu.RLock()
	defer c.mu.RUnlock()

	turns := make([]llms.Turn, len(c.turns))
	copy(turns, c.turns)
	return turns
}

// Reset drops the history, starting the conversation over.
func (c *conversation) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = nil
}

func (c *conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.turns)
}
