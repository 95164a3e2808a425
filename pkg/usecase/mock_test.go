package usecase_test

import (
	"context"
	"errors"
	"sync"

	"github.com/rtxtools/remixer/pkg/domain/model"
)

type mockReleaseClient struct {
	getLatestReleaseFunc func(ctx context.Context, owner, repo string) (*model.Release, error)
	calls                []string
}

func (m *mockReleaseClient) GetLatestRelease(ctx context.Context, owner, repo string) (*model.Release, error) {
	m.calls = append(m.calls, owner+"/"+repo)
	if m.getLatestReleaseFunc != nil {
		return m.getLatestReleaseFunc(ctx, owner, repo)
	}
	return nil, errors.New("mock not configured")
}

type mockFetcher struct {
	fetchFunc func(ctx context.Context, url, dest string, progress model.ProgressFunc) error
}

func (m *mockFetcher) Fetch(ctx context.Context, url, dest string, progress model.ProgressFunc) error {
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, url, dest, progress)
	}
	return errors.New("mock not configured")
}

type mockStore struct {
	mu      sync.Mutex
	records model.GameRecords
	loadErr error
	saveErr error
	saves   int
}

func (m *mockStore) Load(ctx context.Context) (model.GameRecords, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	records := model.GameRecords{}
	for name, record := range m.records {
		records[name] = record
	}
	return records, nil
}

func (m *mockStore) Save(ctx context.Context, records model.GameRecords) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.records = model.GameRecords{}
	for name, record := range records {
		m.records[name] = record
	}
	return nil
}
