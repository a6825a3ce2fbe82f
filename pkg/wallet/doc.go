// Package wallet provides the blockchain-wallet signing capability used to
// authenticate agents and to sign memory-sharing grants.
//
// A Signer wraps a single wallet key and exposes its address together with a
// "sign arbitrary message" operation. Two variants exist:
//
//   - EVMSigner: secp256k1 keys, EIP-191 personal-message signing, hex
//     signatures prefixed "0x"
//   - SolanaSigner: ed25519 keys, Solana off-chain message signing, base64
//     signatures
//
// # Creating a Signer
//
// Construct a signer directly from a raw private key string. Hex keys with a
// "0x" prefix yield an EVM signer, base58 keys a Solana signer:
//
//	signer, err := wallet.NewSignerFromPrivateKey("0xac0974bec...")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(signer.Address(), signer.Family())
//
// # Signing Messages
//
// SignMessage produces a wire-format signature for an arbitrary message:
//
//	sig, err := signer.SignMessage("zkstash:grant:v1:eyJl...")
//
// The signature encoding is determined by the signer family: hex for EVM,
// base64 for Solana.
package wallet
