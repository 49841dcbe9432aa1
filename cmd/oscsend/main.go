// oscsend is a small test client for poking the bridge: it encodes OSC
// datagrams and fires them over UDP, and can list MIDI outputs so you can
// see what the bridge will pick.
package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/marcojking/logicpro-midi-controller/midiout"
	"github.com/marcojking/logicpro-midi-controller/osc"
)

func main() {
	to := flag.String("to", "127.0.0.1:9000", "bridge address to send to")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	var err error
	switch args[0] {
	case "ports":
		err = listPorts()
	case "cc":
		err = sendCC(*to, args[1:])
	case "transport":
		err = sendTransport(*to, args[1:])
	case "slider":
		err = sendSlider(*to, args[1:])
	case "send":
		err = sendRaw(*to, args[1:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("oscsend - OSC test client for the bridge")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  ports                          - list MIDI output ports")
	fmt.Println("  cc <channel> <cc> <value>      - send /midi/cc (channel is 1-indexed)")
	fmt.Println("  transport <action> [value]     - send /transport/<action> (value defaults to 127)")
	fmt.Println("  slider <id> <value>            - send /slider/<id> with a float value")
	fmt.Println("  send <address> [i:N|f:X]...    - send an arbitrary message")
	fmt.Println("")
	fmt.Println("Flags:")
	flag.PrintDefaults()
}

func listPorts() error {
	names, err := midiout.ListOutputs()
	if err != nil {
		return err
	}
	fmt.Println("=== MIDI Output Ports ===")
	for i, n := range names {
		fmt.Printf("  %d: %s\n", i, n)
	}
	return nil
}

func sendCC(to string, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("cc needs <channel> <cc> <value>")
	}
	vals := make([]osc.Argument, 3)
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return fmt.Errorf("bad integer %q", a)
		}
		vals[i] = osc.Int(int32(n))
	}
	return send(to, osc.NewMessage("/midi/cc", vals...))
}

func sendTransport(to string, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("transport needs <action>")
	}
	value := 127
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("bad value %q", args[1])
		}
		value = n
	}
	return send(to, osc.NewMessage("/transport/"+args[0], osc.Int(int32(value))))
}

func sendSlider(to string, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("slider needs <id> <value>")
	}
	if _, err := strconv.Atoi(args[0]); err != nil {
		return fmt.Errorf("bad slider id %q", args[0])
	}
	v, err := strconv.ParseFloat(args[1], 32)
	if err != nil {
		return fmt.Errorf("bad value %q", args[1])
	}
	return send(to, osc.NewMessage("/slider/"+args[0], osc.Float(float32(v))))
}

func sendRaw(to string, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("send needs <address> [i:N|f:X]...")
	}
	msg := osc.NewMessage(args[0])
	for _, a := range args[1:] {
		switch {
		case len(a) > 2 && a[:2] == "i:":
			n, err := strconv.Atoi(a[2:])
			if err != nil {
				return fmt.Errorf("bad integer %q", a)
			}
			msg.Arguments = append(msg.Arguments, osc.Int(int32(n)))
		case len(a) > 2 && a[:2] == "f:":
			v, err := strconv.ParseFloat(a[2:], 32)
			if err != nil {
				return fmt.Errorf("bad float %q", a)
			}
			msg.Arguments = append(msg.Arguments, osc.Float(float32(v)))
		default:
			return fmt.Errorf("argument %q must be i:N or f:X", a)
		}
	}
	return send(to, msg)
}

func send(to string, msg *osc.Message) error {
	raw, err := msg.MarshalBinary()
	if err != nil {
		return err
	}
	conn, err := net.Dial("udp", to)
	if err != nil {
		return err
	}
	defer conn.Close()
	if _, err := conn.Write(raw); err != nil {
		return err
	}
	fmt.Printf("sent %s (%d bytes) to %s\n", msg, len(raw), to)
	return nil
}
