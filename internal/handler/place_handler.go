package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"placehub/internal/auth"
	"placehub/internal/errors"
	"placehub/internal/service"
	"placehub/internal/storage"
)

// PlaceHandler handles place endpoints.
type PlaceHandler struct {
	placeService service.PlaceService
	images       storage.ImageStore
}

// NewPlaceHandler creates a new place handler.
func NewPlaceHandler(placeService service.PlaceService, images storage.ImageStore) *PlaceHandler {
	return &PlaceHandler{placeService: placeService, images: images}
}

// CreatePlaceRequest represents the multipart fields of a create request.
type CreatePlaceRequest struct {
	Title       string `form:"title" validate:"required"`
	Description string `form:"description" validate:"required,min=5"`
	Address     string `form:"address" validate:"required"`
}

// UpdatePlaceRequest represents a place update. Any other fields in the
// request body are ignored; address, location, image, and creator cannot
// be changed through this endpoint.
type UpdatePlaceRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required,min=5"`
}

// authUserID extracts the authenticated user's id from the verified claims
// the JWT middleware attached to the request context.
func authUserID(c echo.Context) (uuid.UUID, error) {
	claims, ok := c.Get("user").(*auth.Claims)
	if !ok {
		return uuid.Nil, errors.ErrAuthFailed
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, errors.ErrAuthFailed
	}
	return userID, nil
}

// GetPlace godoc
// @Summary Get a place by id
// @Tags places
// @Produce json
// @Param placeId path string true "Place ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse
// @Router /places/{placeId} [get]
func (h *PlaceHandler) GetPlace(c echo.Context) error {
	placeID, err := uuid.Parse(c.Param("placeId"))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(errors.ErrPlaceNotFound)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	place, err := h.placeService.GetPlace(c.Request().Context(), placeID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, echo.Map{"place": place})
}

// ListUserPlaces godoc
// @Summary List the places owned by a user
// @Tags places
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse
// @Router /places/user/{userId} [get]
func (h *PlaceHandler) ListUserPlaces(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(errors.ErrUserNotFound)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	places, err := h.placeService.ListPlacesByUser(c.Request().Context(), userID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, echo.Map{"places": places})
}

// CreatePlace godoc
// @Summary Create a place with a geocoded address and an uploaded image
// @Tags places
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param description formData string true "Description (min 5 chars)"
// @Param address formData string true "Postal address"
// @Param image formData file true "Image (png/jpg/jpeg, max 500KB)"
// @Success 201 {object} map[string]interface{}
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /places [post]
func (h *PlaceHandler) CreatePlace(c echo.Context) error {
	creatorID, err := authUserID(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	var req CreatePlaceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Message: "invalid request body",
			Code:    "INVALID_REQUEST",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, errors.ErrorResponse{
			Message: err.Error(),
			Code:    "VALIDATION_ERROR",
		})
	}

	imageKey, err := h.uploadImage(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	place, err := h.placeService.CreatePlace(c.Request().Context(), service.CreatePlaceInput{
		Title:       req.Title,
		Description: req.Description,
		Address:     req.Address,
		CreatorID:   creatorID,
		ImageKey:    imageKey,
	})
	if err != nil {
		// The place was never written; don't leave the upload orphaned.
		_ = h.images.Remove(c.Request().Context(), imageKey)
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, echo.Map{"place": place})
}

// UpdatePlace godoc
// @Summary Update a place's title and description
// @Tags places
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param placeId path string true "Place ID"
// @Param request body UpdatePlaceRequest true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /places/{placeId} [patch]
func (h *PlaceHandler) UpdatePlace(c echo.Context) error {
	userID, err := authUserID(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	placeID, err := uuid.Parse(c.Param("placeId"))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(errors.ErrPlaceNotFound)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	var req UpdatePlaceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Message: "invalid request body",
			Code:    "INVALID_REQUEST",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, errors.ErrorResponse{
			Message: err.Error(),
			Code:    "VALIDATION_ERROR",
		})
	}

	place, err := h.placeService.UpdatePlace(c.Request().Context(), placeID, userID, req.Title, req.Description)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, echo.Map{"place": place})
}

// DeletePlace godoc
// @Summary Delete a place
// @Tags places
// @Produce json
// @Security BearerAuth
// @Param placeId path string true "Place ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /places/{placeId} [delete]
func (h *PlaceHandler) DeletePlace(c echo.Context) error {
	userID, err := authUserID(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	placeID, err := uuid.Parse(c.Param("placeId"))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(errors.ErrPlaceNotFound)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	if err := h.placeService.DeletePlace(c.Request().Context(), placeID, userID); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Deleted place."})
}

// uploadImage validates and stores the "image" multipart file, returning
// its object key.
func (h *PlaceHandler) uploadImage(c echo.Context) (string, error) {
	return uploadImageField(c, h.images)
}

func uploadImageField(c echo.Context, images storage.ImageStore) (string, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return "", errors.ErrInvalidImage
	}
	if fileHeader.Size > storage.MaxImageSize {
		return "", errors.ErrInvalidImage
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if _, ok := storage.MimeExtensions[contentType]; !ok {
		return "", errors.ErrInvalidImage
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", errors.ErrInvalidImage
	}
	defer file.Close()

	key, err := images.Upload(c.Request().Context(), file, fileHeader.Size, contentType)
	if err != nil {
		return "", err
	}
	return key, nil
}
