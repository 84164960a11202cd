package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/pixomat/internal/dispatch"
)

// option form fields forwarded to handlers. Anything else in the form is
// ignored rather than trusted.
var optionFields = []string{
	"objects",
	"language",
	"blur_intensity",
	"compression_quality",
	"background_id",
}

func (s *Server) Invoke(c *gin.Context) {
	featureKey := c.Param("feature_key")

	var userID *snowflake.ID
	if id, ok := currentUserID(c); ok {
		userID = &id
	}

	file, err := readUpload(c, "file")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	background, err := readUpload(c, "background")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	options := map[string]string{}
	for _, field := range optionFields {
		if v := c.PostForm(field); v != "" {
			options[field] = v
		}
	}

	outcome, err := s.router.Dispatch(c.Request.Context(), dispatch.Request{
		FeatureKey: featureKey,
		UserID:     userID,
		SessionKey: sessionKey(c),
		File:       file,
		Background: background,
		Text:       c.PostForm("text"),
		Options:    options,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if outcome.Preview != nil {
		c.JSON(http.StatusOK, gin.H{
			"segmented_image_url": outcome.PreviewURL,
			"objects":             outcome.Preview.Objects,
		})
		return
	}

	body := gin.H{"history": outcome.History}
	if outcome.Text != "" {
		body["text"] = outcome.Text
	}
	c.JSON(http.StatusCreated, body)
}

// readUpload pulls one optional multipart file into memory. Handlers
// validate presence; a feature that needs no file runs without one.
func readUpload(c *gin.Context, field string) (*dispatch.Upload, error) {
	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, dispatch.ErrInvalidInput
	}

	f, err := header.Open()
	if err != nil {
		return nil, dispatch.ErrInvalidInput
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, dispatch.ErrInvalidInput
	}
	return &dispatch.Upload{Name: header.Filename, Data: data}, nil
}
