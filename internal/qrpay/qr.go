package qrpay

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"

	sqr "github.com/skip2/go-qrcode"
	yqr "github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"
)

// Rendering parameters: medium error correction per the SPAYD
// recommendation for printed media, compact modules, minimal border.
const (
	moduleWidth    = 4
	borderModules  = 2
	attachmentSize = 256
)

// Attachment is a QR PNG prepared for inline MIME embedding.
type Attachment struct {
	FileName  string
	ContentID string
	Data      []byte
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// RenderPNG renders the payload as a styled PNG QR code. The encoder picks
// the minimal version fitting the payload; modules are drawn as circles,
// which is cosmetic — scannability is the actual contract.
func RenderPNG(payload string) ([]byte, error) {
	code, err := yqr.NewWith(payload,
		yqr.WithEncodingMode(yqr.EncModeByte),
		yqr.WithErrorCorrectionLevel(yqr.ErrorCorrectionMedium),
	)
	if err != nil {
		return nil, fmt.Errorf("qrpay: encode payload: %w", err)
	}

	var buf bytes.Buffer
	w := standard.NewWithWriter(nopWriteCloser{&buf},
		standard.WithQRWidth(moduleWidth),
		standard.WithBorderWidth(borderModules),
		standard.WithCircleShape(),
		standard.WithBuiltinImageEncoder(standard.PNG_FORMAT),
	)
	if err := code.Save(w); err != nil {
		return nil, fmt.Errorf("qrpay: render png: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURI renders the payload and wraps it as a base64 data URI suitable
// for an <img> src attribute.
func DataURI(payload string) (string, error) {
	png, err := RenderPNG(payload)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// ImageTag renders the payload as a ready-to-embed <img> fragment.
func ImageTag(payload string) (string, error) {
	uri, err := DataURI(payload)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`<img src="%s" alt="QR platba"/>`, uri), nil
}

// MailAttachment renders a compact PNG for an email attachment with a
// content ID for inline embedding (cid: reference in the HTML body).
func MailAttachment(payload string, variableSymbol int64) (*Attachment, error) {
	png, err := sqr.Encode(payload, sqr.Medium, attachmentSize)
	if err != nil {
		return nil, fmt.Errorf("qrpay: render attachment: %w", err)
	}
	return &Attachment{
		FileName:  fmt.Sprintf("qr-platba-%d.png", variableSymbol),
		ContentID: fmt.Sprintf("qr-payment-%d", variableSymbol),
		Data:      png,
	}, nil
}
