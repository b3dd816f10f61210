// Command prefetchsim drives an L1 data-cache access trace through the
// prefetcher and reports its behavior.
package main

import "github.com/SupurCalvinHiggins/l1dprefetcher/cmd/prefetchsim/cmd"

func main() {
	cmd.Execute()
}
