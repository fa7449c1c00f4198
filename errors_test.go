package distill_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/distillhq/distill"
)

func TestErrorCode(t *testing.T) {
	t.Parallel()

	t.Run("returns code for application error", func(t *testing.T) {
		t.Parallel()

		err := distill.Errorf(distill.EINVALID, "bad input")
		assert.Equal(t, distill.EINVALID, distill.ErrorCode(err))
	})

	t.Run("returns empty string for nil", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "", distill.ErrorCode(nil))
	})

	t.Run("returns EINTERNAL for non-application error", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, distill.EINTERNAL, distill.ErrorCode(errors.New("boom")))
	})
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	t.Run("returns formatted message", func(t *testing.T) {
		t.Parallel()

		err := distill.Errorf(distill.ENOTFOUND, "entry %q not found", "abc")
		assert.Equal(t, `entry "abc" not found`, distill.ErrorMessage(err))
	})

	t.Run("masks non-application errors", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "Internal error.", distill.ErrorMessage(errors.New("disk on fire")))
	})
}
