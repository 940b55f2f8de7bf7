package store

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/auradash/aura-metals-backend/internal/models"
	"github.com/auradash/aura-metals-backend/internal/testutil"
)

func TestNewStartsIdle(t *testing.T) {
	s := New()
	assert.Equal(t, StateIdle, s.Get(models.Gold).State)
	assert.Equal(t, StateIdle, s.Get(models.Silver).State)
}

func TestLoadingKeepsPreviousDataset(t *testing.T) {
	s := New()
	records := testutil.Records(time.Now(), time.Hour, 7300, 7310)
	s.SetReady(models.Gold, records, time.Now())

	s.SetLoading(models.Gold)

	snap := s.Get(models.Gold)
	assert.Equal(t, StateLoading, snap.State)
	assert.Len(t, snap.Records, 2)
}

func TestErrorDropsDataset(t *testing.T) {
	s := New()
	s.SetReady(models.Gold, testutil.Records(time.Now(), time.Hour, 7300), time.Now())

	fetchErr := errors.New("upstream down")
	s.SetError(models.Gold, fetchErr, time.Now())

	snap := s.Get(models.Gold)
	assert.Equal(t, StateError, snap.State)
	assert.Equal(t, fetchErr, snap.Err)
	assert.Empty(t, snap.Records)
}

func TestMetalsAreIndependent(t *testing.T) {
	s := New()
	s.SetReady(models.Gold, testutil.Records(time.Now(), time.Hour, 7300), time.Now())
	s.SetError(models.Silver, errors.New("boom"), time.Now())

	assert.Equal(t, StateReady, s.Get(models.Gold).State)
	assert.Equal(t, StateError, s.Get(models.Silver).State)
}

func TestReadyClearsPriorError(t *testing.T) {
	s := New()
	s.SetError(models.Gold, errors.New("boom"), time.Now())
	s.SetReady(models.Gold, testutil.Records(time.Now(), time.Hour, 7300), time.Now())

	snap := s.Get(models.Gold)
	assert.Equal(t, StateReady, snap.State)
	assert.NoError(t, snap.Err)
}
