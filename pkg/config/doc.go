/*
Package config resolves the settings of a filexor run.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   HCL    | |   YAML   | |   JSON   |
	|  Parser  | |  Parser  | |  Parser  |
	+----------+ +----------+ +----------+

🔄 Flow:
1. Start from Default()
2. Optionally overlay a config file (Load)
3. Overlay command line flags (done by the CLI)
4. Validate once, then treat the value as read-only

📝 File schema (HCL shown, YAML and JSON use the same keys):

	mask        = "*.bin"
	output      = "out"
	input_dir   = "."
	delete      = true
	overwrite   = false
	interval_ms = 1000
	xor         = "00000000000000FF"
	single      = false
	watch       = false
	max_probe   = 10000

🔑 Keys are up to 16 hex digits. The value is stored little-endian, so the
last two digits become the first key byte.
*/
package config
