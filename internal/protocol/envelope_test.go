package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSystemEncodesExpectedShape(t *testing.T) {
	got := Encode(NewSystem("client 3 joined"))
	assert.JSONEq(t, `{"type":"system","text":"client 3 joined"}`, got)
}

func TestNewMessageEncodesExpectedShape(t *testing.T) {
	got := Encode(NewMessage(3, "hello room"))
	assert.JSONEq(t, `{"type":"message","clientId":3,"text":"hello room"}`, got)
}

func TestEncodeEscapesText(t *testing.T) {
	got := Encode(NewMessage(1, `quote " and newline` + "\n"))
	assert.Contains(t, got, `\"`)
	assert.Contains(t, got, `\n`)
}
