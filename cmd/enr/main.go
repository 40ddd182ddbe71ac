// Command enr builds and inspects signed node identity records.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"sort"
	"strings"

	"xdao.co/enr/enr"
	"xdao.co/enr/keys"
	"xdao.co/enr/nodeid"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "gen":
		return cmdGen(args[1:], out, errOut)
	case "decode":
		return cmdDecode(args[1:], out, errOut)
	case "nodeid":
		return cmdNodeID(args[1:], out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "enr: build and inspect signed node identity records")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  enr gen --seed-hex <64hex> [--scheme v4|ed25519] [--ip a.b.c.d] [--tcp n] [--udp n] [--ip6 addr] [--tcp6 n] [--udp6 n] [--kv key=hexvalue ...]")
	fmt.Fprintln(w, "  enr decode <enr:... | ->")
	fmt.Fprintln(w, "  enr nodeid <enr:... | ->")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - --seed-hex must be 32 bytes (64 hex chars)")
	fmt.Fprintln(w, "  - \"-\" reads the record text from stdin")
}

type kvFlags []string

func (f *kvFlags) String() string { return strings.Join(*f, ",") }
func (f *kvFlags) Set(v string) error {
	*f = append(*f, v)
	return nil
}

func cmdGen(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("gen", flag.ContinueOnError)
	fs.SetOutput(errOut)
	scheme := fs.String("scheme", "v4", "identity scheme: v4 or ed25519")
	seedHex := fs.String("seed-hex", "", "32-byte signing seed, hex encoded")
	ip := fs.String("ip", "", "IPv4 address")
	tcp := fs.Uint("tcp", 0, "IPv4 TCP port")
	udp := fs.Uint("udp", 0, "IPv4 UDP port")
	ip6 := fs.String("ip6", "", "IPv6 address")
	tcp6 := fs.Uint("tcp6", 0, "IPv6 TCP port")
	udp6 := fs.Uint("udp6", 0, "IPv6 UDP port")
	var kvs kvFlags
	fs.Var(&kvs, "kv", "extra pair as key=hexvalue (repeatable)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	key, err := keyFromFlags(*scheme, *seedHex)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}

	b := enr.NewBuilder(*scheme)
	if *ip != "" {
		b.IP(net.ParseIP(*ip))
	}
	if *ip6 != "" {
		b.IP6(net.ParseIP(*ip6))
	}
	if *tcp != 0 {
		b.TCP(uint16(*tcp))
	}
	if *udp != 0 {
		b.UDP(uint16(*udp))
	}
	if *tcp6 != 0 {
		b.TCP6(uint16(*tcp6))
	}
	if *udp6 != 0 {
		b.UDP6(uint16(*udp6))
	}
	for _, kv := range kvs {
		k, vhex, ok := strings.Cut(kv, "=")
		if !ok {
			fmt.Fprintf(errOut, "invalid --kv %q: want key=hexvalue\n", kv)
			return 1
		}
		v, err := hex.DecodeString(vhex)
		if err != nil {
			fmt.Fprintf(errOut, "invalid --kv value for %q: %v\n", k, err)
			return 1
		}
		b.Set(k, v)
	}

	rec, err := b.Build(key)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	fmt.Fprintln(out, rec.Text())
	fmt.Fprintf(out, "node id: %s\n", rec.NodeID())
	return 0
}

func keyFromFlags(scheme, seedHex string) (keys.SigningKey, error) {
	seed, err := hex.DecodeString(seedHex)
	if err != nil || len(seed) != 32 {
		return nil, fmt.Errorf("--seed-hex must be 64 hex chars")
	}
	switch scheme {
	case "v4":
		k, err := keys.NewV4FromSeed(seed)
		if err != nil {
			return nil, err
		}
		return keys.CombineV4(k), nil
	case "ed25519":
		k, err := keys.NewEd25519FromSeed(seed)
		if err != nil {
			return nil, err
		}
		return keys.CombineEd25519(k), nil
	default:
		return nil, fmt.Errorf("unknown scheme %q", scheme)
	}
}

func cmdDecode(args []string, out io.Writer, errOut io.Writer) int {
	rec, code := recordFromArg(args, errOut)
	if rec == nil {
		return code
	}

	fmt.Fprintf(out, "scheme:    %s\n", rec.ID())
	fmt.Fprintf(out, "seq:       %d\n", rec.Seq())
	fmt.Fprintf(out, "node id:   %s\n", rec.NodeID())
	fmt.Fprintf(out, "signature: %s\n", hex.EncodeToString(rec.Signature()))
	if ip, ok := rec.IP(); ok {
		fmt.Fprintf(out, "ip:        %s\n", ip)
	}
	if ip, ok := rec.IP6(); ok {
		fmt.Fprintf(out, "ip6:       %s\n", ip)
	}
	for _, p := range []struct {
		name string
		get  func() (uint16, bool)
	}{
		{"tcp", rec.TCP}, {"udp", rec.UDP}, {"tcp6", rec.TCP6}, {"udp6", rec.UDP6},
	} {
		if v, ok := p.get(); ok {
			fmt.Fprintf(out, "%-10s %d\n", p.name+":", v)
		}
	}
	printOpaquePairs(out, rec)
	return 0
}

// printOpaquePairs dumps pairs without typed accessors, hex encoded.
func printOpaquePairs(out io.Writer, rec *enr.Record) {
	known := map[string]bool{
		enr.KeyID: true, enr.KeyIP: true, enr.KeyIP6: true,
		enr.KeyTCP: true, enr.KeyUDP: true, enr.KeyTCP6: true, enr.KeyUDP6: true,
		"secp256k1": true, "ed25519": true,
	}
	var extra []string
	for _, k := range rec.Keys() {
		if !known[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		if v, ok := rec.Get(k); ok {
			fmt.Fprintf(out, "%-10s %s\n", k+":", hex.EncodeToString(v))
		}
	}
}

func cmdNodeID(args []string, out io.Writer, errOut io.Writer) int {
	rec, code := recordFromArg(args, errOut)
	if rec == nil {
		return code
	}
	id := rec.NodeID()
	fmt.Fprintf(out, "hex:    %s\n", id)
	fmt.Fprintf(out, "base58: %s\n", id.Base58())
	if c, err := nodeid.RecordCID(rec.Encode()); err == nil {
		fmt.Fprintf(out, "record cid: %s\n", c)
	}
	return 0
}

func recordFromArg(args []string, errOut io.Writer) (*enr.Record, int) {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "expected exactly one record argument")
		return nil, 2
	}
	text := args[0]
	if text == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintln(errOut, err)
			return nil, 1
		}
		text = strings.TrimSpace(string(b))
	}
	rec, err := enr.ParseText(text)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return nil, 1
	}
	return rec, 0
}
