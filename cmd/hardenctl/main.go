// Command hardenctl flips Electron fuses and patches debugging entry points
// out of packaged Electron applications.
package main

func main() {
	execute()
}
