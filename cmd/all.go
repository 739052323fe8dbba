package cmd

import (
	_ "pushbridge/cmd/binary"
	_ "pushbridge/cmd/root"
	_ "pushbridge/cmd/server"
	_ "pushbridge/cmd/tunnel"
)
