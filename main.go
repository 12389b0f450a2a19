package main

import "github.com/tosh-hamburg/cookbookApp/cmd/cookbook"

func main() {
	cookbook.Execute()
}
