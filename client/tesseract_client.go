package client

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

type TesseractClient struct {
	dataPath  string
	languages []string
}

// NewTesseractClient creates a client for the given tessdata directory.
// languages uses tesseract's "ara+eng" syntax; empty means English only.
func NewTesseractClient(dataPath, languages string) *TesseractClient {
	langs := strings.FieldsFunc(languages, func(r rune) bool { return r == '+' || r == ',' })
	if len(langs) == 0 {
		langs = []string{"eng"}
	}
	return &TesseractClient{
		dataPath:  dataPath,
		languages: langs,
	}
}

// Languages returns the tesseract models the client loads.
func (tc *TesseractClient) Languages() []string {
	return tc.languages
}

func (tc *TesseractClient) newClient() (*gosseract.Client, error) {
	client := gosseract.NewClient()
	if tc.dataPath != "" {
		client.SetTessdataPrefix(tc.dataPath)
	}
	if err := client.SetLanguage(tc.languages...); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	return client, nil
}

// ExtractTextAndQuality runs OCR over an encoded image (PNG or JPEG) and returns the mean word confidence (0-100)
// alongside the text. A failed confidence lookup yields 0, not an error.
func (tc *TesseractClient) ExtractTextAndQuality(imageData []byte) (string, float64, error) {
	client, err := tc.newClient()
	if err != nil {
		return "", 0, err
	}
	defer client.Close()

	if err := client.SetImageFromBytes(imageData); err != nil {
		return "", 0, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", 0, fmt.Errorf("failed to extract text: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return text, 0, nil
	}

	var totalConf float64
	for _, box := range boxes {
		totalConf += box.Confidence
	}

	avgConf := 0.0
	if len(boxes) > 0 {
		avgConf = totalConf / float64(len(boxes))
	}

	return text, avgConf, nil
}
