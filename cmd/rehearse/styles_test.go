package main

import (
	"bytes"
	"strings"
	"testing"
)

// setMockTTY sets the TTY override for tests and returns a cleanup function.
// The cleanup function restores the override to nil, allowing real detection.
func setMockTTY(value bool) func() {
	testIsTTYMutex.Lock()
	testIsTTYOverride = &value
	testIsTTYMutex.Unlock()
	return func() {
		testIsTTYMutex.Lock()
		testIsTTYOverride = nil
		testIsTTYMutex.Unlock()
	}
}

func TestPrintSuccess_HasIconAndMessage(t *testing.T) {
	cleanup := setMockTTY(false)
	defer cleanup()

	var buf bytes.Buffer
	printSuccess(&buf, "reviewed %d cards", 3)

	out := buf.String()
	if !strings.Contains(out, iconSuccess) {
		t.Error("output should contain the success icon")
	}
	if !strings.Contains(out, "reviewed 3 cards") {
		t.Errorf("output should contain the formatted message, got: %s", out)
	}
}

func TestPrintWarning_HasIconAndMessage(t *testing.T) {
	cleanup := setMockTTY(false)
	defer cleanup()

	var buf bytes.Buffer
	printWarning(&buf, "2 cards at risk")

	out := buf.String()
	if !strings.Contains(out, iconWarning) {
		t.Error("output should contain the warning icon")
	}
	if !strings.Contains(out, "2 cards at risk") {
		t.Errorf("output should contain the message, got: %s", out)
	}
}

func TestPrintInfo_HasIconAndMessage(t *testing.T) {
	cleanup := setMockTTY(false)
	defer cleanup()

	var buf bytes.Buffer
	printInfo(&buf, "Session: %d items", 5)

	out := buf.String()
	if !strings.Contains(out, iconInfo) {
		t.Error("output should contain the info icon")
	}
	if !strings.Contains(out, "Session: 5 items") {
		t.Errorf("output should contain the message, got: %s", out)
	}
}

func TestPrintMuted_NonTTY_PlainText(t *testing.T) {
	cleanup := setMockTTY(false)
	defer cleanup()

	var buf bytes.Buffer
	printMuted(&buf, "high cognitive load, halved the session")

	out := buf.String()
	if !strings.Contains(out, "high cognitive load") {
		t.Errorf("output should contain the message, got: %s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("non-TTY output should not contain ANSI escape sequences")
	}
}

func TestRenderLabel_NonTTY_Unstyled(t *testing.T) {
	cleanup := setMockTTY(false)
	defer cleanup()

	result := renderLabel("Due:")
	if result != "Due:" {
		t.Errorf("non-TTY label should be unchanged, got: %q", result)
	}
}

func TestRenderLabel_TTY_KeepsText(t *testing.T) {
	cleanup := setMockTTY(true)
	defer cleanup()

	result := renderLabel("Due:")
	if !strings.Contains(result, "Due:") {
		t.Errorf("styled label should still contain the text, got: %q", result)
	}
}

func TestPrintStyled_NonTTY_NoEscapes(t *testing.T) {
	cleanup := setMockTTY(false)
	defer cleanup()

	var buf bytes.Buffer
	printStyled(&buf, iconSuccess, successStyle, "done")

	if strings.Contains(buf.String(), "\x1b[") {
		t.Error("non-TTY output should not contain ANSI escape sequences")
	}
}
