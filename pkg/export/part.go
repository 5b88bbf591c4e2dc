package export

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ContentTypeAudioTranscription tags structured parts carrying transcribed
// speech in their text field.
const ContentTypeAudioTranscription = "audio_transcription"

// UnknownContentType is reported for structured parts without a tag.
const UnknownContentType = "unknown"

// PartKind enumerates the shapes a message part can take.
type PartKind int

const (
	// PartPlainText is a bare JSON string.
	PartPlainText PartKind = iota

	// PartAudioTranscription is an object tagged audio_transcription.
	PartAudioTranscription

	// PartOther is an object with any other content_type (images, files, ...).
	PartOther

	// PartUnsupported is any non-string, non-object value.
	PartUnsupported
)

// Part is a decoded message part. Text is set for the two textual kinds,
// ContentType for structured parts; Raw always holds the original payload.
type Part struct {
	Kind        PartKind
	Text        string
	ContentType string
	Raw         json.RawMessage
}

// IsText reports whether the part carries extractable text.
func (p Part) IsText() bool {
	return p.Kind == PartPlainText || p.Kind == PartAudioTranscription
}

// ParsePart classifies a raw part. An error is returned only when an audio
// transcription carries a text field that is not a string.
func ParsePart(raw json.RawMessage) (Part, error) {
	trimmed := bytes.TrimSpace(raw)
	part := Part{Kind: PartUnsupported, Raw: raw}
	if len(trimmed) == 0 {
		return part, nil
	}

	switch trimmed[0] {
	case '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return part, fmt.Errorf("decoding text part: %w", err)
		}
		part.Kind = PartPlainText
		part.Text = text
		return part, nil

	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return part, fmt.Errorf("decoding structured part: %w", err)
		}
		return parseStructuredPart(part, fields)

	default:
		return part, nil
	}
}

func parseStructuredPart(part Part, fields map[string]json.RawMessage) (Part, error) {
	part.Kind = PartOther
	part.ContentType = UnknownContentType

	if rawType, ok := fields["content_type"]; ok {
		var contentType string
		if err := json.Unmarshal(rawType, &contentType); err == nil {
			part.ContentType = contentType
		} else {
			part.ContentType = string(bytes.TrimSpace(rawType))
		}
	}

	if part.ContentType != ContentTypeAudioTranscription {
		return part, nil
	}

	part.Kind = PartAudioTranscription
	rawText, ok := fields["text"]
	if !ok {
		return part, nil
	}

	var text *string
	if err := json.Unmarshal(rawText, &text); err != nil || text == nil {
		return part, fmt.Errorf("audio transcription text is not a string: %s", bytes.TrimSpace(rawText))
	}
	part.Text = *text

	return part, nil
}
