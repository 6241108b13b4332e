package ipc

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	. "parrot/common"
)

const dialTimeout = 5 * time.Second
const replyTimeout = 10 * time.Second

// SendCommand delivers one control command to a running bot and returns
// the reply line. Error replies come back as the reply text, a non-nil
// error means the exchange itself failed.
func SendCommand(addr string, command string) (string, error) {
	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return "", NewError(ErrorCodeIo, err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(replyTimeout))

	if _, err := fmt.Fprintf(conn, "%s\n", command); err != nil {
		return "", NewError(ErrorCodeIo, err)
	}

	reply, err := bufio.NewReader(conn).ReadString('\n')
	if err == io.EOF {
		return "", NewError(ErrorCodeMissingNewline, fmt.Errorf("reply was cut short: %q", reply))
	}
	if err != nil {
		return "", NewError(ErrorCodeIo, err)
	}

	return strings.TrimSuffix(reply, "\n"), nil
}
