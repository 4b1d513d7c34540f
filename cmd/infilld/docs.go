package main

// General API documentation for swaggo. Run `swag init -g cmd/infilld/docs.go`
// to regenerate docs.
//
// @title           infilld API
// @version         1.0
// @description     HTTP API for editor inline completion via llama.cpp infill.
//
// @contact.name   infilld maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
