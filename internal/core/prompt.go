package core

import (
	"fmt"

	"studymate.dev/presentation/internal/store"
)

// MockDocument stands in for the text of every uploaded PDF. PDFs are
// never parsed.
const MockDocument = `The Water Cycle: A Journey Through Earth's Systems

The water cycle, also known as the hydrologic cycle, describes the continuous movement of water on, above, and below the surface of the Earth. This cycle is vital for all life on our planet. The amount of water on Earth remains fairly constant over time, but its distribution among the major reservoirs of ice, fresh water, saline water, and atmospheric water is variable.

The cycle involves several key processes:

1.  Evaporation: This is the process where water changes from a liquid to a gas or vapor. The sun is the primary driver of evaporation, heating water in oceans, lakes, and rivers, causing it to rise into the atmosphere as water vapor.

2.  Condensation: As the warm, moist air rises, it cools. The water vapor in the air cools down and turns back into liquid water, forming clouds. This process is called condensation.

3.  Precipitation: When so much water has condensed that the air cannot hold it anymore, the clouds get heavy and water falls back to the Earth in the form of rain, hail, sleet, or snow.

4.  Collection: When water falls back to Earth as precipitation, it may fall back in the oceans, lakes, or rivers, or it may end up on land. When it ends up on land, it will either soak into the Earth and become part of the "ground water" that plants and animals use to drink or it may run over the soil and collect in the oceans, lakes, or rivers where the cycle starts all over again.

This continuous process ensures that water is recycled and distributed across the globe, supporting ecosystems and human life.`

const (
	imageQuestionTemplate = `Based on this image, answer the question: "%s"`

	documentQuestionTemplate = `Based on the following document, please answer the user's question. If the answer cannot be found in the document, state that the information is not available in the provided text.

DOCUMENT CONTENT:
---
%s
---

USER QUESTION:
%s`
)

// ImagePart is raw image bytes sent inline with a request.
type ImagePart struct {
	MIMEType string
	Data     []byte
}

// GenerationRequest is one call to the text generation API. When Image is
// set the image part is sent before the text part.
type GenerationRequest struct {
	Image *ImagePart
	Text  string
}

// BuildRequest picks one of three request shapes depending on what is
// attached: an image with an instruction, the mock document wrapped
// around the question, or the bare question.
func BuildRequest(question string, file *store.Attachment) GenerationRequest {
	switch {
	case file != nil && file.Kind == store.FileKindImage:
		return GenerationRequest{
			Image: &ImagePart{MIMEType: file.MIMEType, Data: file.Data},
			Text:  fmt.Sprintf(imageQuestionTemplate, question),
		}
	case file != nil:
		return GenerationRequest{
			Text: fmt.Sprintf(documentQuestionTemplate, MockDocument, question),
		}
	default:
		return GenerationRequest{Text: question}
	}
}
