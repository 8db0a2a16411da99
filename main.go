package main

import "github.com/ZacxDev/go-blog-site/cmd"

func main() {
	cmd.Execute()
}
