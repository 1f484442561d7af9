package artwork_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/myrjola/avalanchemystery/internal/artwork"
	"github.com/myrjola/avalanchemystery/internal/errors"
	"github.com/myrjola/avalanchemystery/internal/models"
	"github.com/myrjola/avalanchemystery/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR") //nolint:gochecknoglobals // test image

type fakePainter struct {
	prompt string
	err    error
}

func (p *fakePainter) Paint(_ context.Context, prompt string) ([]byte, error) {
	p.prompt = prompt
	if p.err != nil {
		return nil, p.err
	}
	return pngHeader, nil
}

type fakeBucket struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (b *fakeBucket) PutObject(
	_ context.Context,
	params *s3.PutObjectInput,
	_ ...func(*s3.Options),
) (*s3.PutObjectOutput, error) {
	if b.err != nil {
		return nil, b.err
	}
	b.input = params
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	b.body = body
	return &s3.PutObjectOutput{}, nil //nolint:exhaustruct // empty output
}

func collectible() models.Collectible {
	return models.Collectible{
		TokenID:       "mystery_defi_heist_1_rank_1_1740830400000",
		MysteryID:     "defi_heist_1",
		PlayerAddress: "0xabc",
		Tier:          models.TierLegendary,
		ImageURL:      "",
		Metadata: models.CollectibleMetadata{
			MysteryTitle:      "The Drained Pool!",
			SolveTime:         0,
			Rank:              1,
			TotalParticipants: 4,
			CluesUsed:         2,
			RarityScore:       1125,
		},
	}
}

func TestIllustrate(t *testing.T) {
	painter := &fakePainter{prompt: "", err: nil}
	bucket := &fakeBucket{input: nil, body: nil, err: nil}
	studio := artwork.NewStudio(testhelpers.NewLogger(io.Discard), painter,
		artwork.NewStore(bucket, "collectibles", "https://cdn.example.com/"))

	url, err := studio.Illustrate(context.Background(), collectible())
	require.NoError(t, err)

	assert.Contains(t, painter.prompt, "Theme: The Drained Pool!")
	assert.Contains(t, painter.prompt, "Rank: 1 out of 4")
	assert.Contains(t, painter.prompt, "Tier: legendary")

	require.NotNil(t, bucket.input)
	key := aws.ToString(bucket.input.Key)
	assert.True(t, strings.HasPrefix(key, "collectibles/defi_heist_1/the-drained-pool/rank-1-"), key)
	assert.True(t, strings.HasSuffix(key, ".png"), key)
	assert.Equal(t, "collectibles", aws.ToString(bucket.input.Bucket))
	assert.Equal(t, "image/png", aws.ToString(bucket.input.ContentType))
	assert.Equal(t, pngHeader, bucket.body)
	assert.Equal(t, "https://cdn.example.com/"+key, url)
}

func TestIllustrateFailures(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name    string
		painter *fakePainter
		bucket  *fakeBucket
	}{
		{
			name:    "painter fails",
			painter: &fakePainter{prompt: "", err: boom},
			bucket:  &fakeBucket{input: nil, body: nil, err: nil},
		},
		{
			name:    "upload fails",
			painter: &fakePainter{prompt: "", err: nil},
			bucket:  &fakeBucket{input: nil, body: nil, err: boom},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			studio := artwork.NewStudio(testhelpers.NewLogger(io.Discard), tt.painter,
				artwork.NewStore(tt.bucket, "b", ""))
			_, err := studio.Illustrate(context.Background(), collectible())
			require.ErrorIs(t, err, boom)
		})
	}
}

func TestStoreDefaultBaseURL(t *testing.T) {
	bucket := &fakeBucket{input: nil, body: nil, err: nil}
	url, err := artwork.NewStore(bucket, "art", "").Put(context.Background(), "a/b.png", pngHeader, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://art.s3.amazonaws.com/a/b.png", url)
}

func TestConfigEnabled(t *testing.T) {
	assert.False(t, artwork.Config{}.Enabled())             //nolint:exhaustruct // zero config
	assert.True(t, artwork.Config{Bucket: "art"}.Enabled()) //nolint:exhaustruct // bucket only
}
