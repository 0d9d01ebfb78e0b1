// Command hubctl runs VolunteerHub maintenance tasks against the configured backends.
package main

func main() {
	Execute()
}
