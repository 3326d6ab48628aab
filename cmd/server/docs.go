package main

//go:generate swag init -g cmd/server/main.go -o docs

// @title           Trade Journal Analytics API
// @version         0.1.0
// @description     Upload trade journals and get performance analytics.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
