package ai

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// defaultAdviceText is the generic substitute sent when a request
// somehow reaches the gateway with neither question nor images, so
// the provider never receives an empty message.
const defaultAdviceText = "Please provide farming advice."

// Image is one uploaded image as handed to the prompt composer:
// declared MIME type plus raw payload.
type Image struct {
	MIME string
	Data []byte
}

// Part is one element of the user message: either a text segment or
// an image carried as a self-describing data URL. The JSON shape
// matches the provider's multimodal content-part format.
type Part struct {
	Type     string    `json:"type"` // "text" or "image_url"
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageRef `json:"image_url,omitempty"`
}

// ImageRef wraps the data URL of an image part.
type ImageRef struct {
	URL string `json:"url"`
}

// Prompt is a composed request for the gateway: the system
// instruction selected by language, the ordered user parts, and the
// language tag used for fallback selection.
type Prompt struct {
	Language    string
	Instruction string
	Parts       []Part
}

// ComposePrompt builds the provider request from a question, a
// language tag and zero or more images.
//
// Rules, in order:
//   - the system instruction is the per-language one, english when the
//     tag is unrecognized;
//   - a non-empty question becomes the leading text part;
//   - an empty question with images substitutes the per-language
//     image-analysis question, so the model knows what to do with the
//     pictures;
//   - each image becomes a data-URL part in upload order;
//   - a prompt with no parts at all gets the generic advice text.
func ComposePrompt(cfg Config, question, language string, images []Image) Prompt {
	p := Prompt{Language: language, Instruction: cfg.instruction(language)}

	question = strings.TrimSpace(question)
	switch {
	case question != "":
		p.Parts = append(p.Parts, Part{Type: "text", Text: question})
	case len(images) > 0:
		p.Parts = append(p.Parts, Part{Type: "text", Text: cfg.defaultQuestion(language)})
	}

	for _, img := range images {
		p.Parts = append(p.Parts, Part{
			Type:     "image_url",
			ImageURL: &ImageRef{URL: dataURL(img)},
		})
	}

	if len(p.Parts) == 0 {
		p.Parts = append(p.Parts, Part{Type: "text", Text: defaultAdviceText})
	}
	return p
}

// dataURL encodes an image as data:<mime>;base64,<payload>.
func dataURL(img Image) string {
	mime := img.MIME
	if mime == "" {
		mime = "image/jpeg"
	}
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(img.Data))
}
