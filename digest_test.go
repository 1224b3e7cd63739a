package saveslot_test

import (
	"strings"
	"testing"

	"github.com/saveslot/saveslot"
)

func Test_DigestSum_Is_Hex_Encoded_When_Computed(t *testing.T) {
	t.Parallel()

	sum := saveslot.TestDigestSum([]byte(`{"k":"v"}`))

	if len(sum) != saveslot.TestDigestSize {
		t.Fatalf("digest length = %d, want %d", len(sum), saveslot.TestDigestSize)
	}

	if strings.ToLower(sum) != sum {
		t.Fatalf("digest not lowercase hex: %q", sum)
	}

	for _, r := range sum {
		if !strings.ContainsRune("0123456789abcdef", r) {
			t.Fatalf("digest contains non-hex rune %q", r)
		}
	}
}

func Test_DigestVerify_Succeeds_When_Body_Unchanged(t *testing.T) {
	t.Parallel()

	body := []byte(`{"pos":"1,2"}`)

	if !saveslot.TestDigestVerify(body, saveslot.TestDigestSum(body)) {
		t.Fatal("verify failed for unchanged body")
	}
}

func Test_DigestVerify_Fails_When_Body_Tampered(t *testing.T) {
	t.Parallel()

	body := []byte(`{"pos":"1,2"}`)
	sum := saveslot.TestDigestSum(body)

	tampered := append([]byte(nil), body...)
	tampered[0] ^= 0x01

	if saveslot.TestDigestVerify(tampered, sum) {
		t.Fatal("verify succeeded for tampered body")
	}
}

func Test_SplitDigest_Round_Trips_When_Attached(t *testing.T) {
	t.Parallel()

	body := []byte(`{"a":"1"}`)
	payload := saveslot.TestAttachDigest(body)

	digest, gotBody, err := saveslot.TestSplitDigest(payload)
	if err != nil {
		t.Fatal(err)
	}

	if string(gotBody) != string(body) {
		t.Fatalf("body = %q, want %q", gotBody, body)
	}

	if !saveslot.TestDigestVerify(gotBody, digest) {
		t.Fatal("split digest does not verify")
	}
}

func Test_SplitDigest_Returns_ErrCorrupt_When_Digest_Line_Missing(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		payload []byte
	}{
		{name: "Empty", payload: nil},
		{name: "NoNewline", payload: []byte(`{"a":"1"}`)},
		{name: "ShortDigestLine", payload: []byte("abc\n{}")},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := saveslot.TestSplitDigest(tc.payload)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}
