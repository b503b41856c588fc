package pulseaudio

import "fmt"

// Command is a PulseAudio native-protocol command code. The numeric
// ordering must match the server's pulsecore/native-common.h exactly;
// this enumeration is grounded on noisetorch/pulseaudio's vendored
// command.go, itself generated from that header.
type Command uint32

const (
	CommandError Command = iota
	CommandTimeout
	CommandReply // 2

	CommandCreatePlaybackStream // 3
	CommandDeletePlaybackStream
	CommandCreateRecordStream
	CommandDeleteRecordStream
	CommandExit
	CommandAuth // 8
	CommandSetClientName
	CommandLookupSink
	CommandLookupSource
	CommandDrainPlaybackStream
	CommandStat
	CommandGetPlaybackLatency
	CommandCreateUploadStream
	CommandDeleteUploadStream
	CommandFinishUploadStream
	CommandPlaySample
	CommandRemoveSample // 19

	CommandGetServerInfo
	CommandGetSinkInfo
	CommandGetSinkInfoList
	CommandGetSourceInfo
	CommandGetSourceInfoList
	CommandGetModuleInfo
	CommandGetModuleInfoList
	CommandGetClientInfo
	CommandGetClientInfoList
	CommandGetSinkInputInfo
	CommandGetSinkInputInfoList
	CommandGetSourceOutputInfo
	CommandGetSourceOutputInfoList
	CommandGetSampleInfo
	CommandGetSampleInfoList
	CommandSubscribe

	CommandSetSinkVolume
	CommandSetSinkInputVolume
	CommandSetSourceVolume

	CommandSetSinkMute
	CommandSetSourceMute // 40

	CommandCorkPlaybackStream
	CommandFlushPlaybackStream
	CommandTriggerPlaybackStream // 43

	CommandSetDefaultSink
	CommandSetDefaultSource // 45

	CommandSetPlaybackStreamName
	CommandSetRecordStreamName // 47

	CommandKillClient
	CommandKillSinkInput
	CommandKillSourceOutput // 50

	CommandLoadModule
	CommandUnloadModule // 52

	CommandAddAutoloadObsolete
	CommandRemoveAutoloadObsolete
	CommandGetAutoloadInfoObsolete
	CommandGetAutoloadInfoListObsolete // 56

	CommandGetRecordLatency
	CommandCorkRecordStream
	CommandFlushRecordStream
	CommandPrebufPlaybackStream // 60

	/* SERVER->CLIENT */
	CommandRequest // 61
	CommandOverflow
	CommandUnderflow
	CommandPlaybackStreamKilled
	CommandRecordStreamKilled
	CommandSubscribeEvent

	CommandMoveSinkInput
	CommandMoveSourceOutput
	CommandSetSinkInputMute
	CommandSuspendSink
	CommandSuspendSource

	CommandSetPlaybackStreamBufferAttr
	CommandSetRecordStreamBufferAttr

	CommandUpdatePlaybackStreamSampleRate
	CommandUpdateRecordStreamSampleRate

	/* SERVER->CLIENT */
	CommandPlaybackStreamSuspended
	CommandRecordStreamSuspended
	CommandPlaybackStreamMoved
	CommandRecordStreamMoved

	CommandUpdateRecordStreamProplist
	CommandUpdatePlaybackStreamProplist
	CommandUpdateClientProplist
	CommandRemoveRecordStreamProplist
	CommandRemovePlaybackStreamProplist
	CommandRemoveClientProplist

	/* SERVER->CLIENT */
	CommandStarted

	CommandExtension

	CommandGetCardInfo
	CommandGetCardInfoList
	CommandSetCardProfile

	CommandClientEvent
	CommandPlaybackStreamEvent
	CommandRecordStreamEvent

	/* SERVER->CLIENT */
	CommandPlaybackBufferAttrChanged
	CommandRecordBufferAttrChanged

	CommandSetSinkPort
	CommandSetSourcePort

	CommandSetSourceOutputVolume
	CommandSetSourceOutputMute

	CommandSetPortLatencyOffset

	/* BOTH DIRECTIONS */
	CommandEnableSrbchannel
	CommandDisableSrbchannel

	/* BOTH DIRECTIONS */
	CommandRegisterMemfdShmid

	commandMax
)

var commandNames = map[Command]string{
	CommandError:                          "ERROR",
	CommandTimeout:                        "TIMEOUT",
	CommandReply:                          "REPLY",
	CommandCreatePlaybackStream:           "CREATE_PLAYBACK_STREAM",
	CommandDeletePlaybackStream:           "DELETE_PLAYBACK_STREAM",
	CommandCreateRecordStream:             "CREATE_RECORD_STREAM",
	CommandDeleteRecordStream:             "DELETE_RECORD_STREAM",
	CommandExit:                           "EXIT",
	CommandAuth:                           "AUTH",
	CommandSetClientName:                  "SET_CLIENT_NAME",
	CommandLookupSink:                     "LOOKUP_SINK",
	CommandLookupSource:                   "LOOKUP_SOURCE",
	CommandDrainPlaybackStream:            "DRAIN_PLAYBACK_STREAM",
	CommandStat:                           "STAT",
	CommandGetPlaybackLatency:             "GET_PLAYBACK_LATENCY",
	CommandCreateUploadStream:             "CREATE_UPLOAD_STREAM",
	CommandDeleteUploadStream:             "DELETE_UPLOAD_STREAM",
	CommandFinishUploadStream:             "FINISH_UPLOAD_STREAM",
	CommandPlaySample:                     "PLAY_SAMPLE",
	CommandRemoveSample:                   "REMOVE_SAMPLE",
	CommandGetServerInfo:                  "GET_SERVER_INFO",
	CommandGetSinkInfo:                    "GET_SINK_INFO",
	CommandGetSinkInfoList:                "GET_SINK_INFO_LIST",
	CommandGetSourceInfo:                  "GET_SOURCE_INFO",
	CommandGetSourceInfoList:              "GET_SOURCE_INFO_LIST",
	CommandGetModuleInfo:                  "GET_MODULE_INFO",
	CommandGetModuleInfoList:              "GET_MODULE_INFO_LIST",
	CommandGetClientInfo:                  "GET_CLIENT_INFO",
	CommandGetClientInfoList:              "GET_CLIENT_INFO_LIST",
	CommandGetSinkInputInfo:               "GET_SINK_INPUT_INFO",
	CommandGetSinkInputInfoList:           "GET_SINK_INPUT_INFO_LIST",
	CommandGetSourceOutputInfo:            "GET_SOURCE_OUTPUT_INFO",
	CommandGetSourceOutputInfoList:        "GET_SOURCE_OUTPUT_INFO_LIST",
	CommandGetSampleInfo:                  "GET_SAMPLE_INFO",
	CommandGetSampleInfoList:              "GET_SAMPLE_INFO_LIST",
	CommandSubscribe:                      "SUBSCRIBE",
	CommandSetSinkVolume:                  "SET_SINK_VOLUME",
	CommandSetSinkInputVolume:             "SET_SINK_INPUT_VOLUME",
	CommandSetSourceVolume:                "SET_SOURCE_VOLUME",
	CommandSetSinkMute:                    "SET_SINK_MUTE",
	CommandSetSourceMute:                  "SET_SOURCE_MUTE",
	CommandCorkPlaybackStream:             "CORK_PLAYBACK_STREAM",
	CommandFlushPlaybackStream:            "FLUSH_PLAYBACK_STREAM",
	CommandTriggerPlaybackStream:          "TRIGGER_PLAYBACK_STREAM",
	CommandSetDefaultSink:                 "SET_DEFAULT_SINK",
	CommandSetDefaultSource:               "SET_DEFAULT_SOURCE",
	CommandSetPlaybackStreamName:          "SET_PLAYBACK_STREAM_NAME",
	CommandSetRecordStreamName:            "SET_RECORD_STREAM_NAME",
	CommandKillClient:                     "KILL_CLIENT",
	CommandKillSinkInput:                  "KILL_SINK_INPUT",
	CommandKillSourceOutput:               "KILL_SOURCE_OUTPUT",
	CommandLoadModule:                     "LOAD_MODULE",
	CommandUnloadModule:                   "UNLOAD_MODULE",
	CommandAddAutoloadObsolete:            "ADD_AUTOLOAD_OBSOLETE",
	CommandRemoveAutoloadObsolete:         "REMOVE_AUTOLOAD_OBSOLETE",
	CommandGetAutoloadInfoObsolete:        "GET_AUTOLOAD_INFO_OBSOLETE",
	CommandGetAutoloadInfoListObsolete:    "GET_AUTOLOAD_INFO_LIST_OBSOLETE",
	CommandGetRecordLatency:               "GET_RECORD_LATENCY",
	CommandCorkRecordStream:               "CORK_RECORD_STREAM",
	CommandFlushRecordStream:              "FLUSH_RECORD_STREAM",
	CommandPrebufPlaybackStream:           "PREBUF_PLAYBACK_STREAM",
	CommandRequest:                        "REQUEST",
	CommandOverflow:                       "OVERFLOW",
	CommandUnderflow:                      "UNDERFLOW",
	CommandPlaybackStreamKilled:           "PLAYBACK_STREAM_KILLED",
	CommandRecordStreamKilled:             "RECORD_STREAM_KILLED",
	CommandSubscribeEvent:                 "SUBSCRIBE_EVENT",
	CommandMoveSinkInput:                  "MOVE_SINK_INPUT",
	CommandMoveSourceOutput:               "MOVE_SOURCE_OUTPUT",
	CommandSetSinkInputMute:               "SET_SINK_INPUT_MUTE",
	CommandSuspendSink:                    "SUSPEND_SINK",
	CommandSuspendSource:                  "SUSPEND_SOURCE",
	CommandSetPlaybackStreamBufferAttr:    "SET_PLAYBACK_STREAM_BUFFER_ATTR",
	CommandSetRecordStreamBufferAttr:      "SET_RECORD_STREAM_BUFFER_ATTR",
	CommandUpdatePlaybackStreamSampleRate: "UPDATE_PLAYBACK_STREAM_SAMPLE_RATE",
	CommandUpdateRecordStreamSampleRate:   "UPDATE_RECORD_STREAM_SAMPLE_RATE",
	CommandPlaybackStreamSuspended:        "PLAYBACK_STREAM_SUSPENDED",
	CommandRecordStreamSuspended:          "RECORD_STREAM_SUSPENDED",
	CommandPlaybackStreamMoved:            "PLAYBACK_STREAM_MOVED",
	CommandRecordStreamMoved:              "RECORD_STREAM_MOVED",
	CommandUpdateRecordStreamProplist:     "UPDATE_RECORD_STREAM_PROPLIST",
	CommandUpdatePlaybackStreamProplist:   "UPDATE_PLAYBACK_STREAM_PROPLIST",
	CommandUpdateClientProplist:           "UPDATE_CLIENT_PROPLIST",
	CommandRemoveRecordStreamProplist:     "REMOVE_RECORD_STREAM_PROPLIST",
	CommandRemovePlaybackStreamProplist:   "REMOVE_PLAYBACK_STREAM_PROPLIST",
	CommandRemoveClientProplist:           "REMOVE_CLIENT_PROPLIST",
	CommandStarted:                        "STARTED",
	CommandExtension:                      "EXTENSION",
	CommandGetCardInfo:                    "GET_CARD_INFO",
	CommandGetCardInfoList:                "GET_CARD_INFO_LIST",
	CommandSetCardProfile:                 "SET_CARD_PROFILE",
	CommandClientEvent:                    "CLIENT_EVENT",
	CommandPlaybackStreamEvent:            "PLAYBACK_STREAM_EVENT",
	CommandRecordStreamEvent:              "RECORD_STREAM_EVENT",
	CommandPlaybackBufferAttrChanged:      "PLAYBACK_BUFFER_ATTR_CHANGED",
	CommandRecordBufferAttrChanged:        "RECORD_BUFFER_ATTR_CHANGED",
	CommandSetSinkPort:                    "SET_SINK_PORT",
	CommandSetSourcePort:                  "SET_SOURCE_PORT",
	CommandSetSourceOutputVolume:          "SET_SOURCE_OUTPUT_VOLUME",
	CommandSetSourceOutputMute:            "SET_SOURCE_OUTPUT_MUTE",
	CommandSetPortLatencyOffset:           "SET_PORT_LATENCY_OFFSET",
	CommandEnableSrbchannel:               "ENABLE_SRBCHANNEL",
	CommandDisableSrbchannel:              "DISABLE_SRBCHANNEL",
	CommandRegisterMemfdShmid:             "REGISTER_MEMFD_SHMID",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Command(%d)", uint32(c))
}

// tagGenerator hands out request tags: a monotonically increasing
// counter that wraps to 0 after handing out 0xFFFFFFFE, so the NoIndex
// sentinel is never used as a tag (spec.md §3 "Request table").
type tagGenerator struct {
	next uint32
}

func (g *tagGenerator) allocate() uint32 {
	t := g.next
	g.next++
	if g.next == NoIndex {
		g.next = 0
	}
	return t
}
