package pulseaudio

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ModuleInfo is the reply shape for GET_MODULE_INFO_LIST, grounded on
// noisetorch/pulseaudio's Module.ReadFrom field order.
type ModuleInfo struct {
	Index    uint32
	Name     string
	Argument string
	NUsed    uint32
	PropList map[string]string
}

func readModuleInfo(b *Buffer) (ModuleInfo, error) {
	var m ModuleInfo
	var err error

	if m.Index, err = b.GetU32(); err != nil {
		return ModuleInfo{}, err
	}
	if m.Name, _, err = b.GetString(); err != nil {
		return ModuleInfo{}, err
	}
	if m.Argument, _, err = b.GetString(); err != nil {
		return ModuleInfo{}, err
	}
	if m.NUsed, err = b.GetU32(); err != nil {
		return ModuleInfo{}, err
	}
	if m.PropList, err = b.GetProps(); err != nil {
		return ModuleInfo{}, err
	}
	return m, nil
}

// GetModuleInfoList queries every loaded module.
func (c *Client) GetModuleInfoList() ([]ModuleInfo, error) {
	reply, err := c.disp.call(CommandGetModuleInfoList, nil)
	if err != nil {
		return nil, err
	}
	var out []ModuleInfo
	for !reply.Done() {
		m, err := readModuleInfo(reply)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// buildModuleArgument renders module load arguments into the
// space-separated "key=value" string PulseAudio's module loader
// expects, per spec.md §4.3 "Load module".
func buildModuleArgument(args map[string]interface{}) string {
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+renderModuleArgValue(args[k]))
	}
	return strings.Join(parts, " ")
}

func renderModuleArgValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return "'" + strings.ReplaceAll(val, "'", `\'`) + "'"
	case PropTree:
		return quoteObjectArg(val)
	case map[string]interface{}:
		return quoteObjectArg(PropTree(val))
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}

func quoteObjectArg(tree PropTree) string {
	flat := Flatten(tree)
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+flat[k])
	}
	inner := strings.Join(parts, " ")
	return `"` + strings.ReplaceAll(inner, `"`, `\"`) + `"`
}

// LoadModule requests the server load a module by name with the given
// arguments, building the key=value argument string per spec.md §4.3.
// Returns the loaded module's index.
func (c *Client) LoadModule(name string, args map[string]interface{}) (uint32, error) {
	argument := buildModuleArgument(args)
	reply, err := c.disp.call(CommandLoadModule, func(b *Buffer) {
		b.AddString(name)
		b.AddString(argument)
	})
	if err != nil {
		return 0, err
	}
	idx, err := reply.GetU32()
	if err != nil {
		return 0, &ProtocolError{Err: err}
	}
	return idx, nil
}

// UnloadModule requests the server unload the module at index.
func (c *Client) UnloadModule(index uint32) error {
	_, err := c.disp.call(CommandUnloadModule, func(b *Buffer) {
		b.AddU32(index)
	})
	return err
}
