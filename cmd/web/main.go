package main

import "github.com/mati-gonz/control-obras-dasco-api/internal/app"

func main() {
	app.Run()
}
