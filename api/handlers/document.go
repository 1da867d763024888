package handlers

import (
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2/api"

	"github.com/linesmerrill/court-management-api/config"
)

// DocumentSignature handles signed-upload requests for case documents.
// The client uploads directly to the storage provider and then appends
// the resulting URL through the case documents endpoint.
type DocumentSignature struct{}

// GenerateSignatureHandler returns a timestamped upload signature
func (d DocumentSignature) GenerateSignatureHandler(w http.ResponseWriter, r *http.Request) {
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	uploadPreset := os.Getenv("CLOUDINARY_UPLOAD_PRESET")
	apiSecret := os.Getenv("CLOUDINARY_API_SECRET")

	params := url.Values{}
	params.Set("timestamp", timestamp)
	params.Set("upload_preset", uploadPreset)

	signature, err := api.SignParameters(params, apiSecret)
	if err != nil {
		config.ErrorStatus("Failed to generate upload signature", http.StatusInternalServerError, w, err)
		return
	}

	config.OKStatus(map[string]string{
		"timestamp": timestamp,
		"signature": signature,
	}, http.StatusOK, w)
}
