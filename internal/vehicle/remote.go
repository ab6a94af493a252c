package vehicle

import (
	"context"
	"fmt"

	"github.com/nao1215/vehicles/pkg/httpclient"
)

// listPath は上流サービスの車両一覧エンドポイント。
const listPath = "/api/vehicles"

// RemoteStore は上流の車両サービスから一覧を取得する。
type RemoteStore struct {
	client *httpclient.Client
}

// NewRemoteStore は新しいRemoteStoreを生成する。
func NewRemoteStore(baseURL string) *RemoteStore {
	return &RemoteStore{client: httpclient.New(baseURL)}
}

// List は上流サービスから車両一覧を取得する。失敗してもリトライしない。
func (s *RemoteStore) List(ctx context.Context) ([]Vehicle, error) {
	vehicles := []Vehicle{}
	if err := s.client.GetJSON(ctx, listPath, &vehicles); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	if vehicles == nil {
		vehicles = []Vehicle{}
	}
	return vehicles, nil
}
