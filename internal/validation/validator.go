package validation

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/page-comments-api/internal/models"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// ValidateSubmission checks a comment submission field by field and collects
// every violation; it never short-circuits. An empty slice means valid.
// Lengths are measured in characters, not bytes, on the trimmed, unescaped
// input.
func ValidateSubmission(sub *models.CommentSubmission) []ValidationError {
	var errors []ValidationError

	// Validate page_url
	if strings.TrimSpace(sub.PageURL) == "" {
		errors = append(errors, ValidationError{Field: "page_url", Message: "page_url is required"})
	} else if err := ValidatePageURL(sub.PageURL); err != nil {
		errors = append(errors, ValidationError{Field: "page_url", Message: "page_url must be a valid URL", Value: sub.PageURL})
	}

	// Validate author_name
	authorName := strings.TrimSpace(sub.AuthorName)
	if authorName == "" {
		errors = append(errors, ValidationError{Field: "author_name", Message: "author_name is required"})
	} else if utf8.RuneCountInString(authorName) > models.MaxAuthorNameLen {
		errors = append(errors, ValidationError{
			Field:   "author_name",
			Message: fmt.Sprintf("author_name must be %d characters or less", models.MaxAuthorNameLen),
		})
	}

	// Validate comment_content
	content := strings.TrimSpace(sub.CommentContent)
	if content == "" {
		errors = append(errors, ValidationError{Field: "comment_content", Message: "comment_content is required"})
	} else if utf8.RuneCountInString(content) > models.MaxCommentContentLen {
		errors = append(errors, ValidationError{
			Field:   "comment_content",
			Message: fmt.Sprintf("comment_content must be %d characters or less", models.MaxCommentContentLen),
		})
	}

	return errors
}

// ValidatePageURL checks that a page URL is a well-formed absolute URL with a
// scheme and host
func ValidatePageURL(pageURL string) error {
	u, err := url.Parse(strings.TrimSpace(pageURL))
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("URL must be absolute with scheme and host")
	}
	return nil
}

// Combine joins all violation messages into a single client-facing message.
// Errors stay structured everywhere else; joining happens only at the
// response boundary.
func Combine(errors []ValidationError) string {
	msgs := make([]string, 0, len(errors))
	for _, e := range errors {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}
