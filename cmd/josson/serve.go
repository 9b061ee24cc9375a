package main

import (
	"flag"
	"fmt"
	"net/http"
	"strings"

	"github.com/aadamsx/josson/internal/policy"
	"github.com/aadamsx/josson/internal/transport"
	"github.com/aadamsx/josson/internal/transport/auth"
)

// serveCmd serves the loaded dataset over a websocket endpoint, following
// the flag-per-subcommand style of mb0-daql's cmd/daql/main.go.
func serveCmd(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := fs.String("addr", ":8765", "address to listen on")
	path := fs.String("path", "/ws", "websocket endpoint path")
	pass := fs.String("pass", "", "passphrase clients must present as a bearer token; empty disables authorization")
	roles := fs.String("roles", "", "comma-separated user=role[:merge,eval] assignments gating the merge/eval actions; empty leaves every signed-in user unpoliced")
	if err := fs.Parse(args); err != nil {
		return err
	}
	e, err := loadEngine()
	if err != nil {
		return err
	}
	signer := &auth.Bcrypt{}
	var hash string
	if *pass != "" {
		hash, err = signer.Sign(*pass)
		if err != nil {
			return err
		}
	}
	srv := transport.NewServer(e, signer, hash)
	if *roles != "" {
		rules, err := parseRoles(*roles)
		if err != nil {
			return err
		}
		srv.Policy = rules
	}
	go srv.Hub.Run(srv)
	http.HandleFunc(*path, srv.Handler())
	fmt.Printf("listening on %s%s\n", *addr, *path)
	return http.ListenAndServe(*addr, nil)
}

// parseRoles builds a policy.Rules from entries of the form
// "user=role:action,action" (actions default to "merge,eval" when omitted),
// one per comma-separated top-level field. A field with no "=" that follows
// an entry with an explicit action list is one more action of that entry.
func parseRoles(spec string) (*policy.Rules, error) {
	rules := policy.NewPolicy()
	lastRole := ""
	for _, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		user, rest, ok := strings.Cut(entry, "=")
		if !ok && lastRole != "" {
			rules.Allow(lastRole, entry)
			continue
		}
		lastRole = ""
		if !ok || user == "" {
			return nil, fmt.Errorf("malformed -roles entry %q, want user=role[:action,...]", entry)
		}
		role, acts, _ := strings.Cut(rest, ":")
		if role == "" {
			return nil, fmt.Errorf("malformed -roles entry %q, want user=role[:action,...]", entry)
		}
		rules.AddMember(user, role)
		if acts == "" {
			rules.Allow(role, transport.SubjMerge).Allow(role, transport.SubjEval)
			continue
		}
		rules.Allow(role, strings.TrimSpace(acts))
		lastRole = role
	}
	return rules, nil
}
