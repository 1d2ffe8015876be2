package main

// General API documentation for swaggo. Run `swag init -g cmd/visiond/docs.go` to regenerate docs.
//
// @title           visiond API
// @version         1.0
// @description     Image upload and top-5 classification with a MobileNet v2 model.
//
// @contact.name   visiond maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
