package storage

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"lingobridge/internal/adapters/storage/azureblob"
	"lingobridge/internal/adapters/storage/gdrive"
	"lingobridge/internal/adapters/storage/localfs"
	"lingobridge/internal/config"
	"lingobridge/internal/storage/urlsign"
)

func NewBlobStore(cfg *config.Config, signer *urlsign.Signer) (BlobStore, error) {
	switch cfg.StorageProvider {
	case "localfs":
		if cfg.StorageLocalRoot == "" {
			return nil, fmt.Errorf("localfs provider requires STORAGE_LOCAL_ROOT")
		}
		return localfs.New(cfg.StorageLocalRoot, signer), nil

	case "azureblob":
		if cfg.AzureStorageAccount == "" || cfg.AzureStorageKey == "" {
			return nil, fmt.Errorf("azureblob provider requires AZURE_STORAGE_ACCOUNT and AZURE_STORAGE_KEY")
		}
		return azureblob.New(cfg.AzureStorageAccount, cfg.AzureStorageKey, cfg.StorageContainer)

	case "gdrive":
		return newGDriveStore(cfg, signer)

	default:
		return nil, fmt.Errorf("unknown storage provider: %s", cfg.StorageProvider)
	}
}

func newGDriveStore(cfg *config.Config, signer *urlsign.Signer) (BlobStore, error) {
	if cfg.GDriveClientID == "" || cfg.GDriveClientSecret == "" || cfg.GDriveRefreshToken == "" {
		return nil, fmt.Errorf("gdrive provider requires GDRIVE_CLIENT_ID, GDRIVE_CLIENT_SECRET and GDRIVE_REFRESH_TOKEN")
	}

	ctx := context.Background()

	conf := &oauth2.Config{
		ClientID:     cfg.GDriveClientID,
		ClientSecret: cfg.GDriveClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{drive.DriveFileScope},
	}

	tok := &oauth2.Token{RefreshToken: cfg.GDriveRefreshToken}
	httpClient := conf.Client(ctx, tok)

	srv, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, err
	}

	return gdrive.New(srv, cfg.GDriveFolderID, signer), nil
}
