package main

import "zabbix-host-import/internal/cli"

func main() {
	cli.Execute()
}
