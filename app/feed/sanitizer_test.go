package feed

import (
	"strings"
	"testing"
)

func TestSanitizer_Run(t *testing.T) {
	sanitizer := NewSanitizer()

	input := `<p onclick="steal()">Hello <strong>world</strong></p><script>alert(1)</script><iframe src="https://evil.example.com"></iframe><a href="https://example.com/a">link</a><img src="javascript:alert(1)">`
	result := sanitizer.Run(input)

	if strings.Contains(result, "script") || strings.Contains(result, "iframe") {
		t.Errorf("Expected script and iframe to be removed, got: %s", result)
	}
	if strings.Contains(result, "onclick") {
		t.Errorf("Expected event attributes to be removed, got: %s", result)
	}
	if strings.Contains(result, "javascript:") {
		t.Errorf("Expected javascript URLs to be removed, got: %s", result)
	}
	if !strings.Contains(result, "<strong>world</strong>") {
		t.Errorf("Expected allowed elements to be kept, got: %s", result)
	}
	if !strings.Contains(result, `href="https://example.com/a"`) || !strings.Contains(result, "noreferrer") {
		t.Errorf("Expected link with noreferrer, got: %s", result)
	}
	if sanitizer.Run("") != "" {
		t.Error("Expected empty output for empty input")
	}
}

func TestSanitizer_PlainText(t *testing.T) {
	sanitizer := NewSanitizer()

	result := sanitizer.PlainText("<p>Caf&eacute; &amp;   th&eacute;</p>\n<p>Deuxième <em>paragraphe</em></p>")

	if result != "Café & thé Deuxième paragraphe" {
		t.Errorf("Expected 'Café & thé Deuxième paragraphe', got: %s", result)
	}
}
