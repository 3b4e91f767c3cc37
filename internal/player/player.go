// Package player содержит контроллер воспроизведения: текущий трек,
// активный список, пауза, перемотка, громкость и переходы next/previous
package player

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"

	"github.com/hazadus/go-digger/internal/data"
	"github.com/hazadus/go-digger/internal/streaming"
)

// Параметры кривой громкости: линейный уровень [0,1] отображается
// в экспоненту от -volumeRange (тихо) до 0 (максимум) по основанию volumeBase
const (
	volumeBase  = 2.0
	volumeRange = 6.0
)

// Status представляет текущий статус плеера
type Status struct {
	Track     *data.Track   // Текущий трек
	Current   time.Duration // Текущая позиция
	Total     time.Duration // Общая продолжительность
	Progress  float64       // Доля воспроизведенного, от 0 до 1; 0, если длительность неизвестна
	IsPlaying bool          // Воспроизводится ли трек
}

// Player управляет воспроизведением треков.
// Переходы next/previous выполняются по активному списку, который
// передается вместе с треком при каждом вызове SelectTrack.
type Player struct {
	// Каналы для обратной связи
	progressChan chan Status
	doneChan     chan bool

	// Внутреннее состояние
	ctx           context.Context
	cancel        context.CancelFunc
	mutex         sync.RWMutex
	isInitialized bool
	isPaused      bool

	currentTrack *data.Track
	activeList   []data.Track

	volume float64 // Уровень громкости от 0 до 1; сохраняется при mute
	muted  bool

	// История прослушиваний; может быть nil
	library *data.Library

	// Компоненты аудио-движка
	sampleRate beep.SampleRate
	streamer   beep.StreamSeekCloser
	ctrl       *beep.Ctrl
	volumeFx   *effects.Volume
	source     io.Closer
}

// NewPlayer создает новый экземпляр плеера. Каждый успешный выбор трека
// записывается в историю прослушиваний library (nil отключает запись).
func NewPlayer(library *data.Library, volume float64) *Player {
	ctx, cancel := context.WithCancel(context.Background())
	p := &Player{
		progressChan: make(chan Status, 1),
		doneChan:     make(chan bool, 1),
		ctx:          ctx,
		cancel:       cancel,
		volume:       clampFraction(volume),
		library:      library,
	}

	// Единственная горутина мониторинга на весь жизненный цикл плеера
	go p.monitorLoop()

	return p
}

// Progress возвращает канал для получения обновлений прогресса
func (p *Player) Progress() <-chan Status {
	return p.progressChan
}

// Done возвращает канал, в который отправляется сигнал по окончании трека.
// Потребитель отвечает на сигнал вызовом Next — автопереход к следующему треку.
func (p *Player) Done() <-chan bool {
	return p.doneChan
}

// SelectTrack начинает воспроизведение трека с начала. activeList — список,
// по которому будут работать Next и Previous (результаты поиска, чарт,
// избранное или история — тот список, из которого трек был выбран).
//
// Новый аудио-сеанс готовится до остановки текущего: если превью не удалось
// открыть или декодировать, прежнее состояние плеера остается нетронутым.
func (p *Player) SelectTrack(track data.Track, activeList []data.Track) error {
	source, err := p.openSource(track)
	if err != nil {
		return fmt.Errorf("ошибка открытия превью: %w", err)
	}

	streamer, format, err := mp3.Decode(source)
	if err != nil {
		source.Close()
		return fmt.Errorf("ошибка декодирования MP3: %w", err)
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()

	// Инициализируем speaker (только один раз)
	if !p.isInitialized {
		if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/5)); err != nil {
			streamer.Close()
			source.Close()
			return fmt.Errorf("ошибка инициализации динамиков: %w", err)
		}
		p.isInitialized = true
	}

	// Останавливаем прежний сеанс только после успешной подготовки нового
	p.stopLocked()

	selected := track
	p.currentTrack = &selected
	p.activeList = make([]data.Track, len(activeList))
	copy(p.activeList, activeList)

	p.sampleRate = format.SampleRate
	p.streamer = streamer
	p.source = source
	p.ctrl = &beep.Ctrl{Streamer: streamer}
	p.isPaused = false

	// Новый аудио-сеанс создается с громкостью по умолчанию, поэтому
	// инвариант «эффективная громкость = muted ? 0 : volume» применяется сразу
	p.volumeFx = &effects.Volume{
		Streamer: p.ctrl,
		Base:     volumeBase,
		Volume:   volumeExponent(p.volume),
		Silent:   p.muted || p.volume == 0,
	}

	done := p.doneChan
	speaker.Play(beep.Seq(p.volumeFx, beep.Callback(func() {
		// Уведомляем о завершении воспроизведения; callback выполняется
		// внутри аудио-цикла, поэтому только неблокирующая отправка
		select {
		case done <- true:
		default:
		}
	})))

	// Записываем прослушивание только после успешного старта.
	// Ошибка сохранения истории не критична для воспроизведения.
	if p.library != nil {
		_ = p.library.RecordPlay(track)
	}

	return nil
}

// openSource открывает источник аудио: превью по HTTP или локальный файл
func (p *Player) openSource(track data.Track) (io.ReadCloser, error) {
	if track.PreviewURL == "" {
		return nil, fmt.Errorf("у трека %q отсутствует URL превью", track.Title)
	}
	if strings.HasPrefix(track.PreviewURL, "http://") || strings.HasPrefix(track.PreviewURL, "https://") {
		return streaming.NewReader(p.ctx, track.PreviewURL, streaming.PreviewBufferSize)
	}
	return os.Open(track.PreviewURL)
}

// TogglePlayPause переключает паузу. Без текущего трека — no-op.
func (p *Player) TogglePlayPause() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.ctrl == nil {
		return
	}

	speaker.Lock()
	p.isPaused = !p.isPaused
	p.ctrl.Paused = p.isPaused
	speaker.Unlock()
}

// Next переходит к следующему треку активного списка по кругу
func (p *Player) Next() error {
	return p.step(1)
}

// Previous переходит к предыдущему треку активного списка по кругу
func (p *Player) Previous() error {
	return p.step(-1)
}

// step выполняет циклический переход по активному списку.
// Если текущего трека нет в списке, его позиция считается нулевой.
func (p *Player) step(delta int) error {
	p.mutex.RLock()
	current := p.currentTrack
	list := make([]data.Track, len(p.activeList))
	copy(list, p.activeList)
	p.mutex.RUnlock()

	if current == nil || len(list) == 0 {
		return nil
	}

	index := indexOf(list, current.ID)
	next := nextIndex(index, delta, len(list))
	return p.SelectTrack(list[next], list)
}

// Seek перематывает трек на указанную долю длительности.
// Доля обрезается до [0, 1]; без трека или при неизвестной длительности — no-op.
func (p *Player) Seek(fraction float64) error {
	fraction = clampFraction(fraction)

	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.streamer == nil {
		return nil
	}

	speaker.Lock()
	defer speaker.Unlock()

	length := p.streamer.Len()
	if length <= 0 {
		return nil
	}

	target := int(fraction * float64(length))
	if target >= length {
		target = length - 1
	}

	if err := p.streamer.Seek(target); err != nil {
		return fmt.Errorf("ошибка перемотки: %w", err)
	}
	return nil
}

// SetVolume устанавливает уровень громкости, обрезая его до [0, 1].
// Уровень сохраняется и в состоянии mute: после размьюта вернется именно он.
func (p *Player) SetVolume(level float64) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.volume = clampFraction(level)
	p.applyVolumeLocked()
}

// SetMuted включает или выключает звук, не меняя сохраненный уровень громкости
func (p *Player) SetMuted(muted bool) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.muted = muted
	p.applyVolumeLocked()
}

// ToggleMute переключает mute
func (p *Player) ToggleMute() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.muted = !p.muted
	p.applyVolumeLocked()
}

// applyVolumeLocked применяет инвариант громкости к активному аудио-сеансу
// (должен вызываться под мьютексом)
func (p *Player) applyVolumeLocked() {
	if p.volumeFx == nil {
		return
	}

	speaker.Lock()
	p.volumeFx.Volume = volumeExponent(p.volume)
	p.volumeFx.Silent = p.muted || p.volume == 0
	speaker.Unlock()
}

// Volume возвращает сохраненный уровень громкости
func (p *Player) Volume() float64 {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.volume
}

// IsMuted возвращает true, если звук выключен
func (p *Player) IsMuted() bool {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.muted
}

// EffectiveVolume возвращает действующую громкость: 0 в режиме mute,
// иначе сохраненный уровень
func (p *Player) EffectiveVolume() float64 {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	if p.muted {
		return 0
	}
	return p.volume
}

// IsPlaying возвращает true, если трек воспроизводится
func (p *Player) IsPlaying() bool {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.ctrl != nil && !p.isPaused
}

// CurrentTrack возвращает информацию о текущем треке
func (p *Player) CurrentTrack() *data.Track {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.currentTrack
}

// ActiveList возвращает копию активного списка треков
func (p *Player) ActiveList() []data.Track {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	list := make([]data.Track, len(p.activeList))
	copy(list, p.activeList)
	return list
}

// Stop останавливает воспроизведение
func (p *Player) Stop() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.stopLocked()
}

// stopLocked внутренний метод остановки (должен вызываться под мьютексом)
func (p *Player) stopLocked() {
	if p.ctrl != nil {
		speaker.Clear()
		p.ctrl = nil
		p.volumeFx = nil
	}

	if p.streamer != nil {
		p.streamer.Close()
		p.streamer = nil
	}

	if p.source != nil {
		p.source.Close()
		p.source = nil
	}

	p.currentTrack = nil
	p.isPaused = false
}

// Close закрывает плеер и освобождает ресурсы. Каналы прогресса и
// завершения остаются открытыми: в них пишут горутина мониторинга и
// callback аудио-движка, отправка в закрытый канал паникует.
func (p *Player) Close() error {
	p.cancel()
	p.Stop()
	return nil
}

// monitorLoop периодически отправляет статус воспроизведения в канал прогресса
func (p *Player) monitorLoop() {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			status, ok := p.snapshot()
			if !ok {
				continue
			}

			select {
			case p.progressChan <- status:
			default:
				// Если канал заблокирован, пропускаем обновление
			}
		}
	}
}

// snapshot собирает текущий статус; false, если активного сеанса нет
func (p *Player) snapshot() (Status, bool) {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	if p.streamer == nil || p.ctrl == nil {
		return Status{}, false
	}

	speaker.Lock()
	position := p.streamer.Position()
	length := p.streamer.Len()
	paused := p.ctrl.Paused
	speaker.Unlock()

	current := p.sampleRate.D(position)

	// Определяем общую продолжительность: сначала по декодеру,
	// затем по метаданным каталога
	var total time.Duration
	if length > 0 {
		total = p.sampleRate.D(length)
	} else if p.currentTrack != nil && p.currentTrack.Length > 0 {
		total = time.Duration(p.currentTrack.Length) * time.Second
	}

	// Доля воспроизведенного всегда число из [0, 1]: при неизвестной
	// длительности сообщаем 0, а не NaN
	var progress float64
	if total > 0 {
		progress = clampFraction(float64(current) / float64(total))
	}

	finished := length > 0 && position >= length

	return Status{
		Track:     p.currentTrack,
		Current:   current,
		Total:     total,
		Progress:  progress,
		IsPlaying: !paused && !finished,
	}, true
}

// indexOf возвращает позицию трека в списке по ID или -1
func indexOf(list []data.Track, id int64) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

// nextIndex вычисляет следующий индекс с циклическим переходом.
// Отсутствующий в списке трек (index < 0) считается нулевым элементом.
func nextIndex(index, delta, length int) int {
	if index < 0 {
		index = 0
	}
	return ((index+delta)%length + length) % length
}

// clampFraction обрезает значение до диапазона [0, 1]
func clampFraction(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}

// volumeExponent переводит линейный уровень громкости в экспоненту beep
func volumeExponent(level float64) float64 {
	return (level - 1) * volumeRange
}
