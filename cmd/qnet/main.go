// Command qnet runs built-in quantum network timing experiments.
package main

func main() {
	Execute()
}
