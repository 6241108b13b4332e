package ipc

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/kballard/go-shellquote"
	"golang.org/x/net/netutil"

	. "parrot/common"
	"parrot/config"
	"parrot/emoji"
)

var ipcLog = NewLogger("ipc")

// Control connections beyond this wait in the accept queue.
const maxControlConns = 16

type Server struct {
	bot   *ParrotContext
	index *emoji.Index
}

// StartIPC listens for control commands on the loopback address. The
// protocol is one command per line, one reply line per command.
func StartIPC(bot *ParrotContext, cfg *config.Config, ix *emoji.Index) *sync.WaitGroup {
	var ipcWait sync.WaitGroup

	listener, err := net.Listen("tcp", cfg.IPC.Addr)
	if err != nil {
		ipcLog.Fatalf("Listen(): %v", err)
	}
	listener = netutil.LimitListener(listener, maxControlConns)

	ipcLog.Printf("Listening on %s", cfg.IPC.Addr)
	ipcWait.Add(1)

	s := &Server{bot: bot, index: ix}

	go func() {
		<-bot.Done()
		listener.Close()
		ipcLog.Println("Finished")
		ipcWait.Done()
	}()

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				if bot.Err() != nil || errors.Is(err, net.ErrClosed) {
					return
				}
				ipcLog.Warnln("Accept failed:", err)
				continue
			}
			go s.serve(conn)
		}
	}()

	return &ipcWait
}

func (s *Server) serve(conn net.Conn) {
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-s.bot.Done():
			conn.Close()
		case <-done:
		}
	}()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		reply := s.dispatch(scanner.Text())
		// Replies are a single line, whatever the command produced.
		reply = strings.ReplaceAll(reply, "\n", " ")
		if _, err := conn.Write([]byte(reply + "\n")); err != nil {
			return
		}
	}
}

func (s *Server) dispatch(line string) string {
	args, err := shellquote.Split(line)
	if err != nil {
		return "error: " + err.Error()
	}
	if len(args) == 0 {
		return "error: empty command"
	}

	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Sprintf("error: unknown command %q", args[0])
	}

	reply, err := cmd(s, args[1:])
	if err != nil {
		return "error: " + err.Error()
	}
	return reply
}
