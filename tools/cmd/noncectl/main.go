package main

import (
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/btcsuite/btcd/btcec"
	"gopkg.in/urfave/cli.v1"

	"github.com/NonceWorks/go-dnonce/dnonce"
	"github.com/NonceWorks/go-dnonce/secp256k1suite"
)

var (
	// Git information set by linker when building with ci.go.
	gitCommit string
	gitDate   string
	app       = &cli.App{
		Name:        filepath.Base(os.Args[0]),
		Usage:       "deterministic (RFC 6979) nonce and signature tool",
		Version:     gitCommit,
		Writer:      os.Stdout,
		HideVersion: true,
	}
)

func init() {
	// Set up the CLI app.

	app.CommandNotFound = func(ctx *cli.Context, cmd string) {
		fmt.Fprintf(os.Stderr, "No such command: %s\n", cmd)
		os.Exit(1)
	}

	// Add subcommands.
	app.Commands = []cli.Command{
		nonceCommand,
		signCommand,
		recoverCommand,
		proveCommand,
	}
}

var nonceCommand = cli.Command{
	Name:   "nonce",
	Usage:  "Derive successive deterministic nonces for a key and message hash",
	Action: nonce,
	Flags: []cli.Flag{
		cli.StringFlag{Name: "key", Usage: "32 byte private key as hex"},
		cli.StringFlag{Name: "keyfile", Usage: "file containing the key as hex (used if key is not provided)"},
		cli.StringFlag{Name: "hash", Usage: "32 byte message hash as hex"},
		cli.IntFlag{Name: "count", Value: 1, Usage: "how many outputs to derive"},
		cli.StringFlag{Name: "extra", Usage: "hedge the derivation with this extra input (hex)"},
	},
}

var signCommand = cli.Command{
	Name:   "sign",
	Usage:  "Deterministic recoverable secp256k1 signature over a digest",
	Action: sign,
	Flags: []cli.Flag{
		cli.StringFlag{Name: "key", Usage: "32 byte private key as hex"},
		cli.StringFlag{Name: "keyfile", Usage: "file containing the key as hex (used if key is not provided)"},
		cli.StringFlag{Name: "hash", Usage: "32 byte digest to sign as hex"},
		cli.StringFlag{Name: "msg", Usage: "message to sign, digested with Keccak256 (used if hash is not provided)"},
	},
}

var recoverCommand = cli.Command{
	Name:   "recover",
	Usage:  "Recover the signer public key, id and address from digest + signature",
	Action: recoverSigner,
	Flags: []cli.Flag{
		cli.StringFlag{Name: "hash", Usage: "32 byte digest as hex"},
		cli.StringFlag{Name: "sig", Usage: "65 byte [R || S || V] signature as hex"},
	},
}

var proveCommand = cli.Command{
	Name:   "prove",
	Usage:  "VRF extra entropy and proof for hedged nonce derivation",
	Action: prove,
	Flags: []cli.Flag{
		cli.StringFlag{Name: "key", Usage: "32 byte private key as hex"},
		cli.StringFlag{Name: "keyfile", Usage: "file containing the key as hex (used if key is not provided)"},
		cli.StringFlag{Name: "hash", Usage: "32 byte message hash as hex"},
	},
}

func nonce(ctx *cli.Context) error {

	key, err := readKeyBytes(ctx)
	if err != nil {
		return err
	}
	hash, err := readHex32(ctx, "hash")
	if err != nil {
		return err
	}

	var g *dnonce.Generator
	if extraHex := ctx.String("extra"); extraHex != "" {
		extra, err := hex.DecodeString(extraHex)
		if err != nil {
			return fmt.Errorf("bad extra hex: %v", err)
		}
		if g, err = dnonce.NewHedgedGenerator(key, hash, extra); err != nil {
			return err
		}
	} else {
		if g, err = dnonce.NewGenerator(key, hash); err != nil {
			return err
		}
	}

	count := ctx.Int("count")
	if count < 1 {
		count = 1
	}
	for i := 0; i < count; i++ {
		fmt.Println(hex.EncodeToString(g.Next()))
	}
	return nil
}

func sign(ctx *cli.Context) error {

	cipherSuite := secp256k1suite.NewCipherSuite()

	key, err := readKey(ctx)
	if err != nil {
		return err
	}

	var hash []byte
	if ctx.String("hash") != "" {
		if hash, err = readHex32(ctx, "hash"); err != nil {
			return err
		}
	} else {
		if ctx.String("msg") == "" {
			return fmt.Errorf("provide either hash or msg")
		}
		hash = cipherSuite.Keccak256([]byte(ctx.String("msg")))
	}

	sig, err := cipherSuite.Sign(hash, key)
	if err != nil {
		return err
	}

	fmt.Println(hex.EncodeToString(sig))
	return nil
}

func recoverSigner(ctx *cli.Context) error {

	cipherSuite := secp256k1suite.NewCipherSuite()

	hash, err := readHex32(ctx, "hash")
	if err != nil {
		return err
	}
	sig, err := hex.DecodeString(ctx.String("sig"))
	if err != nil {
		return fmt.Errorf("bad sig hex: %v", err)
	}
	if len(sig) != 65 {
		return fmt.Errorf("bad sig len %d, require 65", len(sig))
	}

	pub, err := cipherSuite.Ecrecover(hash, sig)
	if err != nil {
		return err
	}
	signerID, err := dnonce.SignerIDFromPubBytes(cipherSuite, pub)
	if err != nil {
		return err
	}

	fmt.Printf("pub:     %s\n", hex.EncodeToString(pub))
	fmt.Printf("id:      %s\n", signerID.Hex())
	fmt.Printf("address: %s\n", signerID.Address().Hex())
	return nil
}

func prove(ctx *cli.Context) error {

	key, err := readKey(ctx)
	if err != nil {
		return err
	}
	hash, err := readHex32(ctx, "hash")
	if err != nil {
		return err
	}

	extra, proof, err := dnonce.ProveExtra(key, hash)
	if err != nil {
		return err
	}

	fmt.Printf("extra: %s\n", hex.EncodeToString(extra))
	fmt.Printf("proof: %s\n", hex.EncodeToString(proof))
	return nil
}

// readKeyBytes gets the raw 32 key bytes from the key flag, falling back to
// the keyfile flag.
func readKeyBytes(ctx *cli.Context) ([]byte, error) {

	keyHex := ctx.String("key")
	if keyHex == "" {
		keyFile := ctx.String("keyfile")
		if keyFile == "" {
			return nil, fmt.Errorf("provide either key or keyfile")
		}
		b, err := ioutil.ReadFile(keyFile)
		if err != nil {
			return nil, fmt.Errorf("key file `%s': %v", keyFile, err)
		}
		keyHex = strings.TrimSpace(string(b))
	}

	key, err := hex.DecodeString(strings.TrimPrefix(keyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("bad key hex: %v", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("bad key len %d, require 32", len(key))
	}
	return key, nil
}

func readKey(ctx *cli.Context) (*ecdsa.PrivateKey, error) {
	b, err := readKeyBytes(ctx)
	if err != nil {
		return nil, err
	}
	priv, _ := btcec.PrivKeyFromBytes(btcec.S256(), b)
	return priv.ToECDSA(), nil
}

func readHex32(ctx *cli.Context, flag string) ([]byte, error) {
	s := ctx.String(flag)
	if s == "" {
		return nil, fmt.Errorf("the %s flag is required", flag)
	}
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, fmt.Errorf("bad %s hex: %v", flag, err)
	}
	if len(b) != 32 {
		return nil, fmt.Errorf("bad %s len %d, require 32", flag, len(b))
	}
	return b, nil
}

func main() {
	exit(app.Run(os.Args))
}

func exit(err interface{}) {
	if err == nil {
		os.Exit(0)
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
