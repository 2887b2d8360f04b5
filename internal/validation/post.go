package validation

import (
	"net/url"
	"strings"
)

const (
	maxPostTextLen    = 50000
	maxCommentTextLen = 5000
)

// PostInput are the raw form fields for creating or editing a post.
type PostInput struct {
	Text     string
	ImageURL string
}

// ValidatePost returns field-level error messages for a post submission.
// An empty map means the input is acceptable; no state is mutated on failure.
func ValidatePost(in PostInput) map[string]string {
	fields := map[string]string{}

	if strings.TrimSpace(in.Text) == "" {
		fields["text"] = "Text is required"
	} else if len(in.Text) > maxPostTextLen {
		fields["text"] = "Text too long (max 50000 characters)"
	}

	if in.ImageURL != "" {
		if _, err := url.ParseRequestURI(in.ImageURL); err != nil {
			fields["image_url"] = "image_url must be a valid URL"
		}
	}

	return fields
}

// CommentInput are the raw form fields for creating a comment.
type CommentInput struct {
	Text string
}

// ValidateComment returns field-level error messages for a comment submission.
func ValidateComment(in CommentInput) map[string]string {
	fields := map[string]string{}

	if strings.TrimSpace(in.Text) == "" {
		fields["text"] = "Text is required"
	} else if len(in.Text) > maxCommentTextLen {
		fields["text"] = "Text too long (max 5000 characters)"
	}

	return fields
}
