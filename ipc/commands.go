package ipc

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	. "parrot/common"
	"parrot/common/snowflake"
	"parrot/emoji"
	"parrot/storage"
)

type commandFunc func(s *Server, args []string) (string, error)

var commands = map[string]commandFunc{
	"ping":    pingCommand,
	"scan":    scanCommand,
	"parse":   parseCommand,
	"asset":   assetCommand,
	"catalog": catalogCommand,
	"rebuild": rebuildCommand,
	"audit":   auditCommand,
	"top":     topCommand,
	"member":  memberCommand,
	"quit":    quitCommand,
}

type assetReply struct {
	Asset string `json:"asset"`
	Known bool   `json:"known"`
}

type catalogReply struct {
	Dir     string `json:"dir"`
	Entries int    `json:"entries"`
}

type rebuildReply struct {
	Entries int `json:"entries"`
}

type topReply struct {
	Total int     `json:"total"`
	Top   []Usage `json:"top"`
}

func marshal(data interface{}) (string, error) {
	out, err := json.Marshal(data)
	if err != nil {
		return "", NewError(ErrorCodeInternalError, err)
	}
	return string(out), nil
}

func pingCommand(s *Server, args []string) (string, error) {
	return "pong", nil
}

func scanCommand(s *Server, args []string) (string, error) {
	text := strings.Join(args, " ")
	return marshal(emoji.Extract(s.index.Catalog(), text))
}

func parseCommand(s *Server, args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.New("usage: parse <tag>")
	}

	token, err := emoji.ParseCustom(args[0])
	if err != nil {
		return "", err
	}
	return marshal(token)
}

func assetCommand(s *Server, args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.New("usage: asset <emoji>")
	}

	return marshal(assetReply{
		Asset: emoji.AssetName(args[0]),
		Known: s.index.Catalog().Contains(args[0]),
	})
}

func catalogCommand(s *Server, args []string) (string, error) {
	return marshal(catalogReply{
		Dir:     s.index.Dir(),
		Entries: s.index.Catalog().Len(),
	})
}

func rebuildCommand(s *Server, args []string) (string, error) {
	catalog, err := s.index.Rebuild()
	if err != nil {
		return "", err
	}
	return marshal(rebuildReply{Entries: catalog.Len()})
}

func auditCommand(s *Server, args []string) (string, error) {
	report, err := emoji.AuditAssets(s.index.Dir())
	if err != nil {
		return "", err
	}
	return marshal(report)
}

func topCommand(s *Server, args []string) (string, error) {
	limit := 10
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return "", errors.New("usage: top [n]")
		}
		limit = n
	}

	db, err := storage.OpenDatabase(s.bot)
	if err != nil {
		return "", err
	}
	defer storage.CloseDatabase(db)

	tx := storage.NewTransaction(db)

	return marshal(topReply{
		Total: tx.UsageTotal(),
		Top:   tx.TopUsage(limit),
	})
}

func memberCommand(s *Server, args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.New("usage: member <id>")
	}

	id, err := snowflake.FromString(args[0])
	if err != nil {
		return "", err
	}

	member, err := storage.GetProfile(id)
	if err != nil {
		return "", err
	}
	return marshal(member)
}

func quitCommand(s *Server, args []string) (string, error) {
	// Delay the shutdown long enough for the reply to flush.
	go func() {
		time.Sleep(100 * time.Millisecond)
		s.bot.Cancel()
	}()
	return "ok", nil
}
