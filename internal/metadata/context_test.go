package metadata_test

import (
	"context"
	"testing"

	"github.com/bionicotaku/lingo-services-person/internal/metadata"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInjectAndFromContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, metadata.Inject(ctx, metadata.HandlerMetadata{}))

	meta := metadata.HandlerMetadata{RequestID: "req-1", UserAgent: "curl/8"}
	got, ok := metadata.FromContext(metadata.Inject(ctx, meta))
	require.True(t, ok)
	assert.Equal(t, meta, got)

	_, ok = metadata.FromContext(ctx)
	assert.False(t, ok)
}

func TestNormalizeRequestID(t *testing.T) {
	known := uuid.NewString()
	assert.Equal(t, known, metadata.NormalizeRequestID(" "+known+" "))

	for _, raw := range []string{"", "not-a-uuid"} {
		got := metadata.NormalizeRequestID(raw)
		_, err := uuid.Parse(got)
		assert.NoError(t, err)
	}
}

func TestRequestIDValuer(t *testing.T) {
	valuer := metadata.RequestID()
	assert.Equal(t, "", valuer(context.Background()))

	ctx := metadata.Inject(context.Background(), metadata.HandlerMetadata{RequestID: "abc"})
	assert.Equal(t, "abc", valuer(ctx))
}
