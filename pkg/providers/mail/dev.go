package mail

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DevSender writes mails as HTML files to a directory instead of
// submitting them to a relay. It is the sender of choice for local
// development and tests where no Postmark credentials exist.
type DevSender struct {
	dir string
}

// NewDevSender creates a development sender writing into dir, which is
// created on first use.
func NewDevSender(dir string) *DevSender {
	return &DevSender{dir: dir}
}

// Send implements Sender.
func (d *DevSender) Send(ctx context.Context, msg Message) (string, error) {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create mail directory: %w", err)
	}

	id := uuid.New().String()
	name := fmt.Sprintf("%s_%s.html", time.Now().Format("2006_01_02_150405"), sanitizeFilename(msg.Subject))
	if err := os.WriteFile(filepath.Join(d.dir, name), []byte(msg.BodyHTML), 0o644); err != nil {
		return "", fmt.Errorf("failed to write mail file: %w", err)
	}
	return id, nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = unsafeFilenameChars.ReplaceAllString(s, "")

	const maxLength = 100
	if len(s) > maxLength {
		s = s[:maxLength]
	}
	if s == "" {
		s = "mail"
	}
	return strings.ToLower(s)
}
