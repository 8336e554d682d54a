package handler

import (
	"errors"
	"strconv"

	"stampbook/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

const maxLeaderboardLimit = 100

type groupAlbum struct {
	container *do.Injector
}

func (gr *groupAlbum) GetAlbum(c echo.Context) error {
	serviceAlbum, err := do.Invoke[*services.ServiceAlbum](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	groupID := c.Param("group")
	target, err := services.ParseTarget(c.Param("user"), "")
	if err != nil || target == nil || groupID == "" {
		return httpx.RestAbort(c, nil, errorx.Wrap(errors.New("invalid group or user"), errorx.Validation))
	}

	album, err := serviceAlbum.GetAlbum(c.Request().Context(), groupID, target.UserID)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, album, nil)
}

func (gr *groupAlbum) GetLeaderboard(c echo.Context) error {
	serviceAlbum, err := do.Invoke[*services.ServiceAlbum](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	limit, err := parseLimit(c.QueryParam("limit"))
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	leaderboard, err := serviceAlbum.GetLeaderboard(c.Request().Context(), c.Param("group"), limit)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, leaderboard, nil)
}

func parseLimit(s string) (int, error) {
	if s == "" {
		return services.DEFAULT_LEADERBOARD_LIMIT, nil
	}

	limit, err := strconv.Atoi(s)
	if err != nil || limit <= 0 {
		return 0, errors.New("invalid limit")
	}
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}
	return limit, nil
}
