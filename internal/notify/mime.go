package notify

import (
	"encoding/base64"
	"fmt"
	"mime"
	"strings"

	"github.com/google/uuid"
)

const base64LineLength = 76

// Message is a single outbound email
type Message struct {
	From       string
	To         string
	Subject    string
	HTMLBody   string
	TextBody   string
	Attachment *Attachment
}

// Attachment is a file carried by a Message
type Attachment struct {
	Filename    string
	ContentType string
	Disposition string
	ContentID   string
	Content     []byte
}

// BuildRawMessage renders msg as multipart/mixed MIME with an alternative
// text/HTML part and an optional base64 attachment
func BuildRawMessage(msg Message) ([]byte, error) {
	if msg.From == "" {
		return nil, fmt.Errorf("sender address is required")
	}
	if msg.To == "" {
		return nil, fmt.Errorf("recipient address is required")
	}
	if strings.ContainsAny(msg.To+msg.From+msg.Subject, "\r\n") {
		return nil, fmt.Errorf("header values must not contain line breaks")
	}

	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	boundary := "mixed_" + id
	altBoundary := "alt_" + id

	var email strings.Builder

	email.WriteString(fmt.Sprintf("From: %s\r\n", msg.From))
	email.WriteString(fmt.Sprintf("To: %s\r\n", msg.To))
	email.WriteString(fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject)))
	email.WriteString("MIME-Version: 1.0\r\n")
	email.WriteString(fmt.Sprintf("Content-Type: multipart/mixed; boundary=\"%s\"\r\n", boundary))
	email.WriteString("\r\n")

	email.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	email.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n", altBoundary))
	email.WriteString("\r\n")

	if msg.TextBody != "" {
		email.WriteString(fmt.Sprintf("--%s\r\n", altBoundary))
		email.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
		email.WriteString("\r\n")
		email.WriteString(msg.TextBody)
		email.WriteString("\r\n")
	}

	email.WriteString(fmt.Sprintf("--%s\r\n", altBoundary))
	email.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	email.WriteString("\r\n")
	email.WriteString(msg.HTMLBody)
	email.WriteString("\r\n")

	email.WriteString(fmt.Sprintf("--%s--\r\n", altBoundary))

	if a := msg.Attachment; a != nil {
		disposition := a.Disposition
		if disposition == "" {
			disposition = "attachment"
		}

		email.WriteString(fmt.Sprintf("--%s\r\n", boundary))
		email.WriteString(fmt.Sprintf("Content-Type: %s\r\n", attachmentContentType(a)))
		email.WriteString(fmt.Sprintf("Content-Disposition: %s; filename=\"%s\"\r\n", disposition, a.Filename))
		if a.ContentID != "" {
			email.WriteString(fmt.Sprintf("Content-ID: <%s>\r\n", a.ContentID))
		}
		email.WriteString("Content-Transfer-Encoding: base64\r\n")
		email.WriteString("\r\n")

		for _, line := range chunkString(base64.StdEncoding.EncodeToString(a.Content), base64LineLength) {
			email.WriteString(line + "\r\n")
		}
	}

	email.WriteString(fmt.Sprintf("--%s--\r\n", boundary))

	return []byte(email.String()), nil
}

func attachmentContentType(a *Attachment) string {
	contentType := a.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if contentType == "text/calendar" {
		return fmt.Sprintf("text/calendar; charset=UTF-8; method=REQUEST; name=\"%s\"", a.Filename)
	}
	return fmt.Sprintf("%s; name=\"%s\"", contentType, a.Filename)
}

// chunkString splits a string into chunks of specified length
func chunkString(s string, chunkSize int) []string {
	var chunks []string
	for i := 0; i < len(s); i += chunkSize {
		end := i + chunkSize
		if end > len(s) {
			end = len(s)
		}
		chunks = append(chunks, s[i:end])
	}
	return chunks
}
