package model

// Point is an [x, y] coordinate pair in image pixel space.
type Point [2]float64

// Quad is a quadrilateral bounding box given as four corner points in
// clockwise order starting from the top-left corner.
type Quad [4]Point

// ZeroQuad is the degenerate all-zero bounding box substituted when the OCR
// engine returns line geometry in an unexpected shape.
var ZeroQuad = Quad{}

// TextLine is a single recognized line of text with its confidence in [0,1]
// and its quadrilateral bounding box. Immutable once produced.
type TextLine struct {
	Text        string  `json:"text"`
	Confidence  float64 `json:"confidence"`
	BoundingBox Quad    `json:"bounding_box"`
}

// TextRegion is a coarse axis-aligned text-region candidate produced by the
// region detector. It is a supplementary signal and is not correlated with
// the OCR line boxes.
type TextRegion struct {
	X      int     `json:"x"`
	Y      int     `json:"y"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Area   float64 `json:"area"`
}

// OcrResult is the full recognition output for one page image.
type OcrResult struct {
	Lines           []TextLine   `json:"lines"`
	FullText        string       `json:"full_text"`
	BoundingBoxes   []Quad       `json:"bounding_boxes"`
	TextRegions     []TextRegion `json:"text_regions"`
	ConfidenceScore float64      `json:"confidence_score"`
	// Error carries the engine failure message when recognition itself
	// failed; the rest of the result is then empty.
	Error string `json:"error,omitempty"`
}

// KeyInformation is the fixed set of fields the language model is asked to
// extract from the recognized text.
type KeyInformation struct {
	Name        string `json:"name"`
	IDNumber    string `json:"id_number"`
	DateOfBirth string `json:"date_of_birth"`
	Address     string `json:"address"`
}

// StructuredFields is the typed form of the language-model response.
type StructuredFields struct {
	DocumentType        string         `json:"document_type"`
	KeyInformation      KeyInformation `json:"key_information"`
	Confidence          float64        `json:"confidence"`
	PotentialCategories []string       `json:"potential_categories"`
}

// UnstructuredFallback is substituted when the model response cannot be
// decoded into the expected schema.
func UnstructuredFallback() StructuredFields {
	return StructuredFields{
		DocumentType:        "Unknown",
		Confidence:          0.0,
		PotentialCategories: []string{"Unstructured"},
	}
}

// ProcessingFailedFallback is substituted when the call to the language-model
// service itself fails.
func ProcessingFailedFallback() StructuredFields {
	return StructuredFields{
		DocumentType:        "Error",
		Confidence:          0.0,
		PotentialCategories: []string{"Processing Failed"},
	}
}

// PageResult combines the OCR output and structured fields for one page.
// PageNumber is the 1-based position of the page among the images derived
// from a single upload.
type PageResult struct {
	DocumentType  string           `json:"document_type"`
	PageNumber    int              `json:"page_number"`
	OcrResults    OcrResult        `json:"ocr_results"`
	FormattedText StructuredFields `json:"formatted_text"`
}
