package stretch

import (
	"testing"
	"time"

	"github.com/codahale/gubbins/assert"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestCalibrate(t *testing.T) {
	t.Parallel()

	params, err := Calibrate(100*time.Millisecond, 16)
	if err != nil {
		t.Fatal(err)
	}

	t.Logf("calibrated params: %v", params)

	// Whatever the machine, the result must be usable for a derivation.
	_, err = Key([]byte("password"), []byte("0123456789abcdef"), params, 32)
	if err != nil {
		t.Fatal(err)
	}
}

func TestCalibrateInvalidDuration(t *testing.T) {
	t.Parallel()

	_, err := Calibrate(0, 16)

	assert.Equal(t, "error", ErrInvalidParams, err, cmpopts.EquateErrors())
}
