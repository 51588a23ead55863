package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"placehub/internal/auth"
	"placehub/internal/config"
	"placehub/internal/errors"
	"placehub/internal/handler"
)

// Register wires routes and middleware.
//
// CORS runs before the JWT gate so browser OPTIONS pre-flights (which never
// carry credentials) pass through unauthenticated. Everything mutating a
// place sits behind the gate; reads and the user endpoints are public.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	jwtService *auth.JWTService,
	placeHandler *handler.PlaceHandler,
	userHandler *handler.UserHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.GET("/places/:placeId", placeHandler.GetPlace)
	api.GET("/places/user/:userId", placeHandler.ListUserPlaces)
	api.POST("/users/signup", userHandler.Signup)
	api.POST("/users/login", userHandler.Login)
	api.GET("/users", userHandler.ListUsers)

	// Mutating place routes require a valid bearer token. Any failure
	// (missing header, malformed value, bad signature, expired token)
	// rejects with 403 before the handler runs. Verification is delegated
	// to the auth package; the verified claims end up under "user".
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return jwtService.VerifyToken(token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			httpErr := errors.MapErrorToHTTP(errors.ErrAuthFailed)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		},
	}))

	secured.POST("/places", placeHandler.CreatePlace)
	secured.PATCH("/places/:placeId", placeHandler.UpdatePlace)
	secured.DELETE("/places/:placeId", placeHandler.DeletePlace)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
