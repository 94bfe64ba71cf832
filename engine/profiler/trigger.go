package profiler

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

const triggerBuffer = 8

// DefaultKeywords returns the stock phrase set: "Profiler" and "Toggle Profiler" toggle,
// "Show Profiler" shows and "Hide Profiler" hides.
func DefaultKeywords() map[string]Command {
	return map[string]Command{
		"Profiler":        CommandToggle,
		"Toggle Profiler": CommandToggle,
		"Show Profiler":   CommandShow,
		"Hide Profiler":   CommandHide,
	}
}

// KeywordTrigger turns recognized phrases into visibility commands. Phrases are matched case-insensitively
// after trimming surrounding whitespace.
type KeywordTrigger struct {
	keywords map[string]Command
	commands chan Command
}

var _ Trigger = &KeywordTrigger{}

// NewKeywordTrigger creates a trigger for the given phrases. A nil or empty map uses DefaultKeywords.
//
// Parameters:
//   - keywords: phrase to command mapping
//
// Returns:
//   - *KeywordTrigger: the trigger
func NewKeywordTrigger(keywords map[string]Command) *KeywordTrigger {
	if len(keywords) == 0 {
		keywords = DefaultKeywords()
	}
	k := &KeywordTrigger{
		keywords: make(map[string]Command, len(keywords)),
		commands: make(chan Command, triggerBuffer),
	}
	for phrase, cmd := range keywords {
		k.keywords[normalizePhrase(phrase)] = cmd
	}
	return k
}

func normalizePhrase(phrase string) string {
	return strings.ToLower(strings.Join(strings.Fields(phrase), " "))
}

func (k *KeywordTrigger) Commands() <-chan Command {
	return k.commands
}

// Recognize issues the command bound to phrase. Commands are dropped when the buffer is full.
//
// Parameters:
//   - phrase: the recognized phrase
//
// Returns:
//   - bool: true if the phrase matched a keyword
func (k *KeywordTrigger) Recognize(phrase string) bool {
	cmd, ok := k.keywords[normalizePhrase(phrase)]
	if !ok {
		return false
	}
	select {
	case k.commands <- cmd:
	default:
	}
	return true
}

// Listen reads phrases line by line from r until r is exhausted or ctx is cancelled.
//
// Parameters:
//   - ctx: cancels the listener between lines
//   - r: the phrase source, typically stdin or a speech recognizer pipe
//
// Returns:
//   - error: the read error, ctx.Err() on cancellation, or nil at end of input
func (k *KeywordTrigger) Listen(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		k.Recognize(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read trigger phrases: %w", err)
	}
	return nil
}

// KeyTrigger toggles the profiler when a bound key is pressed.
type KeyTrigger struct {
	key      uint32
	commands chan Command
}

var _ Trigger = &KeyTrigger{}

// NewKeyTrigger creates a trigger bound to keyCode (see the common key codes).
//
// Parameters:
//   - keyCode: the key that toggles the profiler
//
// Returns:
//   - *KeyTrigger: the trigger
func NewKeyTrigger(keyCode uint32) *KeyTrigger {
	return &KeyTrigger{
		key:      keyCode,
		commands: make(chan Command, triggerBuffer),
	}
}

func (k *KeyTrigger) Commands() <-chan Command {
	return k.commands
}

// HandleKeyDown matches the window key-down callback signature.
func (k *KeyTrigger) HandleKeyDown(keyCode uint32) {
	if keyCode != k.key {
		return
	}
	select {
	case k.commands <- CommandToggle:
	default:
	}
}
