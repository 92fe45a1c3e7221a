package utils

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// ParsePagination читает page/limit из query и возвращает также offset.
func ParsePagination(c echo.Context) (page, limit int, offset uint64) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}

	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	offset = uint64(page-1) * uint64(limit)
	return page, limit, offset
}

// ParseUint64Param читает числовой path- или query-параметр.
func ParseUint64Param(value string) (uint64, error) {
	return strconv.ParseUint(value, 10, 64)
}
