package handler

import (
	"github.com/campushq/campus_admin/pkg/context"
)

func HelloHandler(c *context.Context) *context.Response {
	return context.Success("Hello, World!")
}

// HealthHandler 存活探针
func HealthHandler(c *context.Context) *context.Response {
	return context.Success(map[string]string{"status": "ok"})
}
