package utils

import (
	"context"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/7499karthik/suvidhaa/config"
)

// Uploader pushes media to Cloudinary and hands back secure URLs.
type Uploader struct {
	cld    *cloudinary.Cloudinary
	preset string
}

func NewUploader(cfg *config.Config) (*Uploader, error) {
	cld, err := cloudinary.NewFromParams(
		cfg.CloudinaryCloudName,
		cfg.CloudinaryAPIKey,
		cfg.CloudinaryAPISecret)
	if err != nil {
		return nil, err
	}
	return &Uploader{cld: cld, preset: cfg.CloudinaryUploadPreset}, nil
}

// Upload stores the file under the given public ID and folder and returns
// the secure URL. Avatars are resized server-side.
func (u *Uploader) Upload(ctx context.Context, file interface{}, publicID, folder string) (string, error) {
	resp, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID:       publicID,
		Folder:         folder,
		UploadPreset:   u.preset,
		Transformation: "c_thumb,w_200,h_200",
	})
	if err != nil {
		return "", err
	}
	return resp.SecureURL, nil
}
