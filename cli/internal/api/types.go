package api

import "time"

// User mirrors the server's user rows.
type User struct {
	UserID       int64  `json:"userid"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	FirstName    string `json:"firstname"`
	LastName     string `json:"lastname"`
	BucketFolder string `json:"bucketfolder"`
}

// Asset mirrors a committed asset row as listed by GET /assets.
type Asset struct {
	AssetID   int64  `json:"assetid"`
	UserID    int64  `json:"userid"`
	AssetName string `json:"assetname"`
	BucketKey string `json:"bucketkey"`
	AssetType string `json:"assettype"`
}

type Like struct {
	LikeID  int64 `json:"likeid"`
	UserID  int64 `json:"userid"`
	AssetID int64 `json:"assetid"`
}

type Comment struct {
	CommentID int64     `json:"commentid"`
	UserID    int64     `json:"userid"`
	AssetID   int64     `json:"assetid"`
	Comment   string    `json:"comment"`
	Created   time.Time `json:"created"`
}

// ListResponse is the {message, data} body of every list endpoint.
type ListResponse[T any] struct {
	Message string `json:"message"`
	Data    []T    `json:"data"`
}

// RegisterRequest is the body of POST /users.
type RegisterRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	Email        string `json:"email"`
	FirstName    string `json:"firstname"`
	LastName     string `json:"lastname"`
	BucketFolder string `json:"bucketfolder,omitempty"`
}

// LoginResponse is returned by POST /auth/login.
type LoginResponse struct {
	Message     string `json:"message"`
	AccessToken string `json:"access_token"`
	UserID      int64  `json:"userid"`
}

// DownloadResponse is returned by GET /assets/:assetid. Data is base64.
type DownloadResponse struct {
	Message   string `json:"message"`
	UserID    int64  `json:"user_id"`
	AssetName string `json:"asset_name"`
	BucketKey string `json:"bucket_key"`
	Data      string `json:"data"`
}

// VersionResponse is returned by GET /version.
type VersionResponse struct {
	Version    string `json:"version"`
	APIVersion string `json:"api_version"`
}
