package catalog

// Default returns the built-in catalog: the combined module set of the
// ESP8266, ESP32 and Loboris firmware builds, plus the policy lists that
// ship with the tool. There is no way to enumerate modules on the device, so
// the list is maintained by hand across firmware variants; import failures
// at run time tell us which entries exist on a given build.
func Default() Catalog {
	return Catalog{
		Modules: []string{
			"_boot", "_onewire", "_thread", "_webrepl", "ak8963", "apa102",
			"apa106", "array", "binascii", "btree", "builtins", "cmath",
			"collections", "curl", "dht", "display", "ds18x20", "errno",
			"esp", "esp32", "example_pub_button", "example_sub_led",
			"flashbdev", "framebuf", "freesans20", "functools", "gc", "gsm",
			"hashlib", "heapq", "http_client", "http_client_ssl",
			"http_server", "http_server_ssl", "inisetup", "io", "json",
			"logging", "lwip", "machine", "math", "microWebSocket",
			"microWebSrv", "microWebTemplate", "micropython", "mpu6500",
			"mpu9250", "neopixel", "network", "ntptime", "onewire", "os",
			"port_diag", "pye", "random", "re", "requests", "select",
			"socket", "socketupip", "ssd1306", "ssh", "ssl", "struct", "sys",
			"time", "tpcalib", "uasyncio/__init__", "uasyncio/core",
			"ubinascii", "ucollections", "ucryptolib", "uctypes", "uerrno",
			"uhashlib", "uheapq", "uio", "ujson", "umqtt/robust",
			"umqtt/simple", "uos", "upip", "upip_utarfile", "upysh",
			"urandom", "ure", "urequests", "urllib/urequest", "uselect",
			"usocket", "ussl", "ustruct", "utime", "utimeq", "uwebsocket",
			"uzlib", "webrepl", "webrepl_setup", "websocket",
			"websocket_helper", "writer", "ymodem", "zlib",
		},
		Problematic: []string{
			"upysh", "webrepl_setup", "http_client", "http_client_ssl",
			"http_server", "http_server_ssl",
		},
		Excluded:     []string{"webrepl", "_webrepl", "webrepl_setup"},
		KeepLoaded:   []string{"os", "sys", "logging", "gc"},
		KeepInternal: []string{"_thread"},
	}
}
