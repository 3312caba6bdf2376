package bot

import (
	"testing"

	"stockbot/internal/bot/view"
)

func TestEmbedOnlyEdit(t *testing.T) {
	t.Run("error edit clears previous attachments", func(t *testing.T) {
		edit := errorEdit("AAPL")

		if edit.Embeds == nil || len(*edit.Embeds) != 1 {
			t.Fatalf("expected exactly one embed, got %v", edit.Embeds)
		}
		if (*edit.Embeds)[0].Color != view.ColorRed {
			t.Errorf("error embed color = %#x, want %#x", (*edit.Embeds)[0].Color, view.ColorRed)
		}
		// A refresh onto a failed fetch must not leave the stale chart
		// attached under the error embed.
		if edit.Attachments == nil {
			t.Fatal("expected attachments to be reset, got nil")
		}
		if len(*edit.Attachments) != 0 {
			t.Errorf("expected empty attachments, got %d", len(*edit.Attachments))
		}
	})

	t.Run("not-found edit clears previous attachments", func(t *testing.T) {
		edit := embedOnlyEdit(view.NotFoundEmbed("NOPE", nil))

		if edit.Attachments == nil {
			t.Fatal("expected attachments to be reset, got nil")
		}
		if len(*edit.Attachments) != 0 {
			t.Errorf("expected empty attachments, got %d", len(*edit.Attachments))
		}
	})
}
