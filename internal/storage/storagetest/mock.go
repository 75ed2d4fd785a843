package storagetest

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

type Mock struct {
	mock.Mock
}

func (m *Mock) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, objectName, reader, size, contentType)
	return args.Error(0)
}

func (m *Mock) Download(ctx context.Context, objectName string) ([]byte, error) {
	args := m.Called(ctx, objectName)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *Mock) Delete(ctx context.Context, objectName string) error {
	args := m.Called(ctx, objectName)
	return args.Error(0)
}
