package unxz

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Reference vectors produced with XZ Utils 5.4.1 and verified against it
// byte for byte. The g* payload is regenerated by gtextPlain below so only
// the compressed side needs embedding.

func mustHex(s string) []byte {
	b, err := hex.DecodeString(strings.Join(strings.Fields(s), ""))
	if err != nil {
		panic(err)
	}
	return b
}

// gtextPlain is the 10450-byte plaintext behind every gtext* vector.
func gtextPlain() []byte {
	var sb strings.Builder
	for i := 0; i < 190; i++ {
		fmt.Fprintf(&sb, "line %04d: the quick brown fox jumps over the lazy dog\n", i)
	}
	return []byte(sb.String())
}

// xz -c --check=none /dev/null
var emptyXzNone = mustHex(`
fd377a585a000000ff12d941000000001cdf442106729e7a010000000000595a`)

// xz -c --check=crc32 /dev/null
var emptyXzCRC32 = mustHex(`
fd377a585a0000016922de36000000001cdf44219042990d010000000001595a`)

// xz -c /dev/null (CRC-64, the default)
var emptyXzCRC64 = mustHex(`
fd377a585a000004e6d6b446000000001cdf44211fb6f37d010000000004595a`)

// xz -c of the byte 'a' repeated 1024 times. The single compressed chunk is
// one literal followed by four rep matches at distance 1, so decoding walks
// the overlapping run-length copy path.
var a1024Xz = mustHex(`
fd377a585a000004e6d6b4460200210116000000742fe5a3e003ff000b5d0030effbbffe
a3b0dee07200000089765be53ecf7cdd00012780080000002e79aeadb1c467fb02000000
0004595a`)

// xz --format=lzma --lzma1=preset=6,lc=3,lp=0,pb=2,dict=8MiB of
// "Hello, world!\n" (14 bytes; the header's size field is "unknown", so
// decoding runs to the end marker).
var helloLzma = mustHex(`
5d00008000ffffffffffffffff00241949986f16028ce8e65bb147c50daf9de5ffff9580
0000`)

// xz -c of gtextPlain (CRC-64, 8 MiB dictionary).
var gtextXz = mustHex(`
fd377a585a000004e6d6b4460200210116000000742fe5a3e028d100e55d00361a4a1f08
a02a4e1adfd4863f29698e5a2b06a587100d9829abcb1574af47e4f68528f56f3f1919a6
878416edb55b3ba5acef1cd0a3ebbb3473cc35b912a79567b6c36de9ed226990208e342f
ca2b98e95ff6c2082d7999fce97168df25c1a0ea67901566a0da8e12916e9460a340f2c7
822cb0bb3e4a5d4c4f1cf8942ff75642a4645b27c1a6249a4a01e6a8e1ae0f3c1de4e1f2
c23417b911293a3f5ee3c45d526a1661f40505bd467d4ae7239a7697afbc10dc47b6eb14
dc174cf589275e8f64ab1c021d13bb050bd68df37a3dcc99fa8aa244b7e1a2d7959ebda1
d9352410e641430000000000fd57486eb6556a9800018102d251000055755a8db1c467fb
020000000004595a`)

// xz -c --check=crc32 --block-size=4096 of gtextPlain: three blocks, each
// with its own header, padding and checksum.
var gtextBlocksXz = mustHex(`
fd377a585a0000016922de360200210116000000742fe5a3e00fff00a15d00361a4a1f08
a02a4e1adfd4863f29698e5a2b06a587100d9829abcb1574af47e4f68528f56f3f1919a6
878416edb55b3ba5acef1cd0a3ebbb3473cc35b912a79567b6c36de9ed226990208e342f
ca2b98e95ff6c2082d7999fce97168df25c1a0ea67901566a0da8e12916e9460a340f2c7
822cb0bb3e4a5d4c4f1cf8942ff75642a4645b27c1a6249a4a01e6a8e1ae0f3c1de4e1f2
c23417b911293a3880a8580000000000dbf6c70a0200210116000000742fe5a3e00fff00
a75d00101989e7b9175d71959080fd36f046fa9c805de36ac42e1dc054c81e127540c04c
d59f050034bbf0373fadf11612a573481fca8d386338f0348059867f80df0a2b0b779744
ab705b942fc3a36fe93cf396f7f895ab75e390d993e9be4fea43cb750a99e0efa21f3cd1
a24f605a9ca79c2177e1736cf50004077872a3258376197cae7307e07f48727b2c22d521
3529181a16a64de724677e70d383d5ba48a2fbeed35144ceaa0000003d9e9fb402002101
16000000742fe5a3e008d1008c5d003799bd46957ab8e3f173397465ba0176c1c5001418
f3668ae7b1000a657aa3fcf820dcf3aa2bb9b9b13480390a62b33065012cbab7265eacbf
f621a4de305a8b00f5bcdee53ff6d7281553a5b9f942ad7b5de25c878db456917a67bb30
c56c5f8e999104e35968ffb29b60afd47f845e44600046af1b048f0b58c4b42533565087
df2dae6db2a97074e2b90000ea70fd070003b9018020bf018020a401d211000024f6ac9a
23d3545d040000000001595a`)

// xz -c --lzma2=preset=9,dict=4KiB of gtextPlain: dictionary far smaller
// than the output, so back-references stay within 4 KiB.
var gtextDict4kXz = mustHex(`
fd377a585a000004e6d6b4460200210100000000372797d6e028d100e55d00361a4a1f08
a02a4e1adfd4863f29698e5a2b06a587100d9829abcb1574af47e4f68528f56f3f1919a6
878416edb55b3ba5acef1cd0a3ebbb3473cc35b912a79567b6c36de9ed226990208e342f
ca2b98e95ff6c2082d7999fce97168df25c1a0ea67901566a0da8e12916e9460a340f2c7
822cb0bb3e4a5d4c4f1cf8942ff75642a4645b27c1a6249a4a01e6a8e1ae0f3c1de4e1f2
c23417b911293a3f5ee3c45d526a1661f40505bd467d4ae7239a7697afbc10dc47b6eb14
dc174cf589275e8f64ab1c021d13bb050bd68df37a3dcd96f7051fe3e8b05226b98ffc5a
49bf96fba8f44e1a00000000fd57486eb6556a9800018102d251000055755a8db1c467fb
020000000004595a`)

// xz --format=lzma of gtextPlain with the header's uncompressed-size field
// left "unknown" (all-FF low word): decoding runs to the end marker.
var gtextUnknownLzma = mustHex(`
5d00008000ffffffffffffffff00361a4a1f08a02a4e1adfd4863f29698e5a2b06a58710
0d9829abcb1574af47e4f68528f56f3f1919a6878416edb55b3ba5acef1cd0a3ebbb3473
cc35b912a79567b6c36de9ed226990208e342fca2b98e95ff6c2082d7999fce97168df25
c1a0ea67901566a0da8e12916e9460a340f2c7822cb0bb3e4a5d4c4f1cf8942ff75642a4
645b27c1a6249a4a01e6a8e1ae0f3c1de4e1f2c23417b911293a3f5ee3c45d526a1661f4
0505bd467d4ae7239a7697afbc10dc47b6eb14dc174cf589275e8f64ab1c021d13bb050b
d68df37a3dcc99fa8aa244b7e1a2d7959ebda1d9352411309273ffffe4bc7200`)

// Same stream with the declared uncompressed size (10450) patched into the
// header: decoding stops exactly at the declared length.
var gtextKnownLzma = mustHex(`
5d00008000d22800000000000000361a4a1f08a02a4e1adfd4863f29698e5a2b06a587
100d9829abcb1574af47e4f68528f56f3f1919a6878416edb55b3ba5acef1cd0a3ebbb34
73cc35b912a79567b6c36de9ed226990208e342fca2b98e95ff6c2082d7999fce97168df
25c1a0ea67901566a0da8e12916e9460a340f2c7822cb0bb3e4a5d4c4f1cf8942ff75642
a4645b27c1a6249a4a01e6a8e1ae0f3c1de4e1f2c23417b911293a3f5ee3c45d526a1661
f40505bd467d4ae7239a7697afbc10dc47b6eb14dc174cf589275e8f64ab1c021d13bb05
0bd68df37a3dcc99fa8aa244b7e1a2d7959ebda1d9352411309273ffffe4bc7200`)

// xz --format=lzma --lzma1=preset=6,lc=0,lp=2,pb=1,dict=1MiB of gtextPlain:
// exercises the position-dependent literal contexts (lp != 0) and a
// non-default pb.
var gmixLzma = mustHex(`
3f00001000ffffffffffffffff00361a4a34b7b59d969d89e331335af7025f02d897c255
8133e84e62feeaa88928cb70179ea035d885733c0c0ccdf33e0043d81895b2cd13121387
7fa25f1d1e92c31c89a722c8ca44a8420bab7948a99e6b51f8f28415894abb5054543751
6b9a8fe7ff1131eaf061cb76ea9d7a9a3a62054161dcdef59cc1f7d7d4475f61a9c51d4d
876194264535a2506113e671c9314b7d7f10e420f980dfa5fd09b3208d6bb4626cd2263d
7d0e7c6120b3c5ee3e334da618a6d90bf9955b61d709227f9f9da3384650ccd638a95c8d
9a336aa72969585ed4f1280286f477723d23c7bba942ec46525f61f34e2f565dba6e58d7
3b702301e3a73d7f72c0b67ace3a9a7c9657679ca062ee9608a9f6af3cfffe9b2280`)
