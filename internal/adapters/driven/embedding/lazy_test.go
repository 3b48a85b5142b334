package embedding

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dupscan-labs/dupscan-cli/internal/core/domain"
	"github.com/dupscan-labs/dupscan-cli/internal/core/ports/driven"
)

// fakeService records construction and closure per mode.
type fakeService struct {
	mode   domain.ModelMode
	closed bool
	embeds int
}

func (f *fakeService) Embed(_ context.Context, _ string) ([]float32, error) {
	f.embeds++
	return []float32{1, 2, 3}, nil
}

func (f *fakeService) ModelName() string { return "fake-" + f.mode.String() }
func (f *fakeService) Close() error      { f.closed = true; return nil }

// trackingFactory builds fakeServices and remembers them.
type trackingFactory struct {
	built []*fakeService
	err   error
}

func (t *trackingFactory) new(mode domain.ModelMode) (driven.EmbeddingService, error) {
	if t.err != nil {
		return nil, t.err
	}
	svc := &fakeService{mode: mode}
	t.built = append(t.built, svc)
	return svc, nil
}

func TestLazyBuildsOnFirstUseOnly(t *testing.T) {
	factory := &trackingFactory{}
	lazy := NewLazy(domain.ModelModeHeavy, factory.new)

	assert.Empty(t, factory.built, "construction must wait for first use")

	_, err := lazy.Embed(context.Background(), "some text")
	require.NoError(t, err)
	_, err = lazy.Embed(context.Background(), "more text")
	require.NoError(t, err)

	require.Len(t, factory.built, 1)
	assert.Equal(t, 2, factory.built[0].embeds)
	assert.Equal(t, "fake-heavy", lazy.ModelName())
}

func TestLazySetModeInvalidatesService(t *testing.T) {
	factory := &trackingFactory{}
	lazy := NewLazy(domain.ModelModeHeavy, factory.new)

	_, err := lazy.Embed(context.Background(), "text")
	require.NoError(t, err)

	lazy.SetMode(domain.ModelModeLight)
	assert.Equal(t, domain.ModelModeLight, lazy.Mode())
	require.Len(t, factory.built, 1)
	assert.True(t, factory.built[0].closed, "old service must be closed on mode change")

	_, err = lazy.Embed(context.Background(), "text")
	require.NoError(t, err)
	require.Len(t, factory.built, 2)
	assert.Equal(t, domain.ModelModeLight, factory.built[1].mode)
}

func TestLazySetModeSameModeIsNoop(t *testing.T) {
	factory := &trackingFactory{}
	lazy := NewLazy(domain.ModelModeHeavy, factory.new)

	_, err := lazy.Embed(context.Background(), "text")
	require.NoError(t, err)

	lazy.SetMode(domain.ModelModeHeavy)
	assert.False(t, factory.built[0].closed)

	_, err = lazy.Embed(context.Background(), "text")
	require.NoError(t, err)
	assert.Len(t, factory.built, 1)
}

func TestLazyFactoryFailure(t *testing.T) {
	factory := &trackingFactory{err: errors.New("model not installed")}
	lazy := NewLazy(domain.ModelModeHeavy, factory.new)

	_, err := lazy.Embed(context.Background(), "text")
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	assert.Empty(t, lazy.ModelName())
}

func TestLazyClose(t *testing.T) {
	factory := &trackingFactory{}
	lazy := NewLazy(domain.ModelModeHeavy, factory.new)

	// Closing before first use is a no-op.
	require.NoError(t, lazy.Close())

	_, err := lazy.Embed(context.Background(), "text")
	require.NoError(t, err)
	require.NoError(t, lazy.Close())
	assert.True(t, factory.built[0].closed)

	// The next use rebuilds.
	_, err = lazy.Embed(context.Background(), "text")
	require.NoError(t, err)
	assert.Len(t, factory.built, 2)
}
