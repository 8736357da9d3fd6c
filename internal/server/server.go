package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// resources lists the collections the dev server exposes, with the fields
// a write must carry to be accepted.
var resources = map[string][]string{
	"users":     {"name", "email"},
	"tasks":     {"title"},
	"inventory": {"name"},
}

// New builds the echo instance serving the dashboard REST contract on top
// of the given store. Failures come back as {"message": "..."} bodies,
// which is what echo's default error handler emits for HTTP errors.
func New(st Store) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	for name, required := range resources {
		registerResource(e, st, name, required)
	}
	return e
}

func registerResource(e *echo.Echo, st Store, resource string, required []string) {
	g := e.Group("/" + resource)

	g.GET("", func(c echo.Context) error {
		recs, err := st.List(c.Request().Context(), resource)
		if err != nil {
			return storeError(err)
		}
		sortByID(recs)
		if recs == nil {
			recs = []Record{}
		}
		return c.JSON(http.StatusOK, recs)
	})

	g.POST("", func(c echo.Context) error {
		fields, err := bindRecord(c, required)
		if err != nil {
			return err
		}
		rec, err := st.Create(c.Request().Context(), resource, fields)
		if err != nil {
			return storeError(err)
		}
		return c.JSON(http.StatusCreated, rec)
	})

	g.PUT("/:id", func(c echo.Context) error {
		fields, err := bindRecord(c, required)
		if err != nil {
			return err
		}
		rec, ok, err := st.Replace(c.Request().Context(), resource, c.Param("id"), fields)
		if err != nil {
			return storeError(err)
		}
		if !ok {
			return notFound(resource, c.Param("id"))
		}
		return c.JSON(http.StatusOK, rec)
	})

	g.PATCH("/:id", func(c echo.Context) error {
		fields, err := bindRecord(c, nil)
		if err != nil {
			return err
		}
		rec, ok, err := st.Patch(c.Request().Context(), resource, c.Param("id"), fields)
		if err != nil {
			return storeError(err)
		}
		if !ok {
			return notFound(resource, c.Param("id"))
		}
		return c.JSON(http.StatusOK, rec)
	})

	g.DELETE("/:id", func(c echo.Context) error {
		ok, err := st.Delete(c.Request().Context(), resource, c.Param("id"))
		if err != nil {
			return storeError(err)
		}
		if !ok {
			return notFound(resource, c.Param("id"))
		}
		return c.JSON(http.StatusOK, echo.Map{})
	})
}

// bindRecord decodes the JSON body and checks the fields the resource
// cannot do without.
func bindRecord(c echo.Context, required []string) (Record, error) {
	var fields Record
	if err := c.Bind(&fields); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
	}
	if fields == nil {
		fields = Record{}
	}
	for _, f := range required {
		s, _ := fields[f].(string)
		if s == "" {
			return nil, echo.NewHTTPError(http.StatusBadRequest, f+" is required")
		}
	}
	return fields, nil
}

func notFound(resource, id string) error {
	return echo.NewHTTPError(http.StatusNotFound, resource+" "+id+" not found")
}

func storeError(err error) error {
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
