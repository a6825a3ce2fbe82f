// Package grant implements the zkStash memory-sharing grant protocol: a
// self-contained bearer capability that lets one wallet-identified agent
// read another's stored memories.
//
// A grant is a signed payload with single-letter wire keys:
//
//	f  grantor wallet address (always taken from the signer)
//	g  grantee wallet address
//	a  optional agent-scope filter
//	u  optional subject-scope filter
//	e  unix-seconds expiry (mandatory)
//
// The exact signed bytes are "zkstash:grant:v1:" followed by the base64 of
// the sorted-key JSON payload; see BuildMessage. Signed grants travel as
// opaque share codes ("zkg1_" + base64url JSON).
//
// # Minting and sharing a grant
//
//	signer, _ := wallet.NewSignerFromPrivateKey(key)
//	g, err := grant.Sign(signer, grant.Options{
//	    Grantee:   "0xBBB...",
//	    ExpiresIn: "7d",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	code, _ := g.ToShareCode()
//
// The receiving agent decodes the code with FromShareCode and attaches it to
// its client; the service checks the signature server-side.
package grant
