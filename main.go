package main

import "stream_cache/app"

func main() {
	app.Start()
}
